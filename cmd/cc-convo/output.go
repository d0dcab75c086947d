package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")) // cyan
	styleSuccess = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")) // green
	styleAccent  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	styleFail    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleOK      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleDim     = lipgloss.NewStyle().Faint(true)
	styleBold    = lipgloss.NewStyle().Bold(true)
)

// printJSON writes one pretty-printed JSON document to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// warnSkipped reports malformed-line counts on stderr.
func warnSkipped(count int) {
	if count > 0 {
		fmt.Fprintln(os.Stderr, styleWarn.Render(fmt.Sprintf("Skipped %d malformed JSON lines.", count)))
	}
}
