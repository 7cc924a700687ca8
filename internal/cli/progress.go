package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Level progress commands",
	}

	cmd.AddCommand(newProgressGetCmd())
	cmd.AddCommand(newProgressUnlockCmd())

	return cmd
}

func newProgressGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Show the highest unlocked level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Progress

			if err := client.Get(cmd.Context(), playerPath("/api/progress", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProgressUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <player-id> <won-level>",
		Short: "Report a won level, unlocking the next one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wonLevel, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[1], err)
			}

			req := map[string]any{"player_id": args[0], "won_level": wonLevel}
			var result StatusResult
			if err := client.Post(cmd.Context(), "/api/progress/unlock", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if !cfg.Verbose {
				out.Print(result)
				return nil
			}

			// Verbose mode shows where the player ended up
			var progress Progress
			if err := client.Get(cmd.Context(), playerPath("/api/progress", args[0]), &progress); err != nil {
				return err
			}
			out.Print(progress)
			return nil
		},
	}
}
