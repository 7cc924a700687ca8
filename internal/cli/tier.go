package cli

import (
	"github.com/spf13/cobra"
)

func newTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <player-id>",
		Short: "Show a player's skill tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Classification

			if err := client.Get(cmd.Context(), playerPath("/api/classification", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Verbose = cfg.Verbose
			out.Print(result)
			return nil
		},
	}
}
