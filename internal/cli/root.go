package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "ssprint",
		Short: "CLI tool for the Shadow Sprint API",
		Long: `ssprint is a CLI tool for interacting with the Shadow Sprint game backend.

It covers player settings, level progress, ghost replays and skill tiers,
which makes it handy for seeding test players and inspecting live ones.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SSPRINT_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newGhostCmd())
	rootCmd.AddCommand(newTierCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		NewOutput(cfg.Output).PrintError(err)
		os.Exit(1)
	}
}
