package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format  string
	w       io.Writer
	Verbose bool
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return NewOutputTo(format, os.Stdout)
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Settings:
		o.printSettings(v)
	case Levels:
		o.printLevels(v)
	case Progress:
		o.printProgress(v)
	case Ghost:
		o.printGhost(v)
	case Classification:
		o.printClassification(v)
	case StatusResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Settings response type (matches API)
type Settings struct {
	PlayerID  string `json:"player_id"`
	Volume    bool   `json:"volume"`
	Vibration bool   `json:"vibration"`
	Language  string `json:"language"`
}

// Levels response type
type Levels struct {
	Levels []int `json:"levels"`
}

// Progress response type
type Progress struct {
	PlayerID     string `json:"player_id"`
	UnlockedUpto int    `json:"unlocked_upto"`
}

// InputSegment is one press in a ghost run
type InputSegment struct {
	StartMs int    `json:"start_ms"`
	EndMs   int    `json:"end_ms"`
	Kind    string `json:"kind"`
}

// Ghost is both the ghost response and the submit request
type Ghost struct {
	PlayerID string         `json:"player_id"`
	Level    int            `json:"level"`
	TimeMs   int            `json:"time_ms"`
	Inputs   []InputSegment `json:"inputs"`
}

// Classification response type
type Classification struct {
	Tier         string   `json:"tier"`
	LevelsPlayed *int     `json:"levels_played,omitempty"`
	AverageMs    *float64 `json:"average_ms,omitempty"`
}

// StatusResult is the acknowledgement returned by write endpoints
type StatusResult struct {
	Status string `json:"status"`
}

// HealthResult response type
type HealthResult struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (o *Output) printSettings(s Settings) {
	fmt.Fprintf(o.w, "Player: %s\n", s.PlayerID)
	fmt.Fprintf(o.w, "Volume: %s\n", onOff(s.Volume))
	fmt.Fprintf(o.w, "Vibration: %s\n", onOff(s.Vibration))
	fmt.Fprintf(o.w, "Language: %s\n", s.Language)
}

func (o *Output) printLevels(l Levels) {
	levels := make([]string, len(l.Levels))
	for i, level := range l.Levels {
		levels[i] = fmt.Sprint(level)
	}
	fmt.Fprintf(o.w, "Levels: %s\n", strings.Join(levels, " "))
}

func (o *Output) printProgress(p Progress) {
	fmt.Fprintf(o.w, "Player: %s\n", p.PlayerID)
	fmt.Fprintf(o.w, "Unlocked up to: %d\n", p.UnlockedUpto)
}

func (o *Output) printGhost(g Ghost) {
	fmt.Fprintf(o.w, "Player: %s\n", g.PlayerID)
	fmt.Fprintf(o.w, "Level: %d\n", g.Level)
	fmt.Fprintf(o.w, "Time: %dms\n", g.TimeMs)
	fmt.Fprintf(o.w, "Inputs (%d):\n", len(g.Inputs))
	for _, in := range g.Inputs {
		fmt.Fprintf(o.w, "  - %5d..%5d %s\n", in.StartMs, in.EndMs, in.Kind)
	}
}

func (o *Output) printClassification(c Classification) {
	fmt.Fprintf(o.w, "Tier: %s\n", c.Tier)
	if !o.Verbose {
		return
	}
	if c.LevelsPlayed == nil {
		fmt.Fprintln(o.w, "No levels recorded")
		return
	}
	fmt.Fprintf(o.w, "Levels played: %d\n", *c.LevelsPlayed)
	if c.AverageMs != nil {
		fmt.Fprintf(o.w, "Average time: %.1fms\n", *c.AverageMs)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Database: %s\n", h.Database)
}
