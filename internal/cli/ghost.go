package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGhostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ghost",
		Short: "Ghost replay commands",
	}

	cmd.AddCommand(newGhostGetCmd())
	cmd.AddCommand(newGhostSubmitCmd())

	return cmd
}

func newGhostGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id> <level>",
		Short: "Show the best run for a level (or the fallback ghost)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[1], err)
			}

			var result Ghost
			path := fmt.Sprintf("%s/%d", playerPath("/api/ghost", args[0]), level)
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGhostSubmitCmd() *cobra.Command {
	var (
		timeMs int
		inputs string
	)

	cmd := &cobra.Command{
		Use:   "submit <player-id> <level>",
		Short: "Submit a run; kept only if it beats the stored time",
		Example: `  ssprint ghost submit p1 3 --time 7000 --inputs 0-120:tap,700-1400:hold`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[1], err)
			}
			segments, err := ParseInputs(inputs)
			if err != nil {
				return err
			}

			req := Ghost{PlayerID: args[0], Level: level, TimeMs: timeMs, Inputs: segments}
			var result StatusResult
			if err := client.Post(cmd.Context(), "/api/ghost", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&timeMs, "time", 0, "Run time in milliseconds (required)")
	cmd.Flags().StringVar(&inputs, "inputs", "", "Comma separated segments as start-end:kind")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

// ParseInputs parses "start-end:kind" segments separated by commas.
// Kind defaults to tap. An empty string is no inputs.
func ParseInputs(s string) ([]InputSegment, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []InputSegment{}, nil
	}

	parts := strings.Split(s, ",")
	segments := make([]InputSegment, 0, len(parts))
	for _, part := range parts {
		span, kind, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found {
			kind = "tap"
		}
		startStr, endStr, ok := strings.Cut(span, "-")
		if !ok {
			return nil, fmt.Errorf("invalid segment %q: want start-end[:kind]", part)
		}
		start, err := strconv.Atoi(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid segment %q: %w", part, err)
		}
		end, err := strconv.Atoi(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid segment %q: %w", part, err)
		}
		segments = append(segments, InputSegment{StartMs: start, EndMs: end, Kind: kind})
	}
	return segments, nil
}
