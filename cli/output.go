// ABOUTME: Terminal output helpers for the CLI
// ABOUTME: Lipgloss styles for timing pills, JSON output and the shared logger

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/harperreed/speedrun/models"
)

var (
	StyleHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	StyleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	StyleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// pillStyles colors timing labels by their color class.
var pillStyles = map[string]lipgloss.Style{
	models.ColorRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	models.ColorOrange: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	models.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	models.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	models.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	models.ColorGray:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var noColor bool

// SetNoColor replaces every style with a plain renderer.
func SetNoColor(disabled bool) {
	noColor = disabled
	if !disabled {
		return
	}
	plain := lipgloss.NewStyle()
	StyleHeader = plain
	StyleSuccess = plain
	StyleWarning = plain
	StyleMuted = plain
	for k := range pillStyles {
		pillStyles[k] = plain
	}
}

func pill(t models.Timing) string {
	style, ok := pillStyles[t.Color]
	if !ok {
		return t.Label
	}
	return style.Render(t.Label)
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "speedrun",
		Level:           level,
		ReportTimestamp: verbose,
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		_, _ = fmt.Fprintln(w, StyleWarning.Render("⚠ "+warning))
	}
}
