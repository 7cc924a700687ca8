package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Player settings commands",
	}

	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Show a player's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Settings

			if err := client.Get(cmd.Context(), playerPath("/api/settings", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var (
		volume    bool
		vibration bool
		language  string
	)

	cmd := &cobra.Command{
		Use:   "set <player-id>",
		Short: "Update some of a player's settings",
		Long: `Update a player's settings. Only the flags given are sent; the rest keep
their stored values.`,
		Example: "  ssprint settings set p1 --language en --volume=false",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("volume") {
				req["volume"] = volume
			}
			if cmd.Flags().Changed("vibration") {
				req["vibration"] = vibration
			}
			if cmd.Flags().Changed("language") {
				req["language"] = language
			}
			if len(req) == 0 {
				return fmt.Errorf("at least one of --volume, --vibration or --language is required")
			}

			var result Settings
			if err := client.Post(cmd.Context(), playerPath("/api/settings", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&volume, "volume", true, "Sound on or off")
	cmd.Flags().BoolVar(&vibration, "vibration", true, "Vibration on or off")
	cmd.Flags().StringVar(&language, "language", "", "Language: en, es")

	return cmd
}
