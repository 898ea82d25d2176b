// Package display provides unified console output for the converge CLI:
// round banners, termination summaries, and a sink for the orchestrator's
// onLog hook.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Display handles all CLI output with visual hierarchy.
type Display struct {
	theme     *Theme
	termWidth int
	noColor   bool
}

// New creates a new Display instance.
func New() *Display {
	return NewWithOptions(false)
}

// NewWithOptions creates a Display with configuration.
func NewWithOptions(noColor bool) *Display {
	d := &Display{
		termWidth: getTerminalWidth(),
		noColor:   noColor,
	}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

// Banner prints a boxed message with a custom title, e.g. for the run
// header.
func (d *Display) Banner(title string, lines ...string) {
	if len(lines) == 0 {
		return
	}

	width := d.termWidth - 2
	titleLen := len(title) + 4
	remainingWidth := width - titleLen

	topLine := BoxTopLeft + BoxHorizontal + " " + title + " " + strings.Repeat(BoxHorizontal, remainingWidth) + BoxTopRight
	fmt.Println(d.theme.Border(topLine))

	for _, line := range lines {
		paddedLine := d.padRight(line, width-2)
		fmt.Println(d.theme.Border(BoxVertical) + " " + d.theme.Text(paddedLine) + " " + d.theme.Border(BoxVertical))
	}

	bottomLine := BoxBottomLeft + strings.Repeat(BoxHorizontal, width) + BoxBottomRight
	fmt.Println(d.theme.Border(bottomLine))
}

// Status prints a single-line status message (no box).
func (d *Display) Status(symbol, message string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n", d.theme.Border(timestamp), symbol, d.theme.Text(message))
}

// Success prints a success message with a green checkmark.
func (d *Display) Success(message string) {
	d.Status(d.theme.Success(SymbolSuccess), message)
}

// Error prints an error message with a red X.
func (d *Display) Error(message string) {
	d.Status(d.theme.Error(SymbolError), message)
}

// Warning prints a warning message with a yellow triangle.
func (d *Display) Warning(message string) {
	d.Status(d.theme.Warning(SymbolWarning), message)
}

// Info prints a labeled info message.
func (d *Display) Info(label, message string) {
	d.Status(d.theme.Info(label+":"), message)
}

// RoundHeader prints the banner for the start of a round.
func (d *Display) RoundHeader(number int, phase string) {
	d.SectionBreak()
	fmt.Printf("Round %d: %s\n", number, d.theme.Info(phase))
	d.SectionBreak()
}

// SectionBreak prints a horizontal separator for round boundaries.
func (d *Display) SectionBreak() {
	fmt.Println(d.theme.Separator(strings.Repeat(SectionBreak, d.termWidth)))
}

// Log prints one log line emitted by the orchestrator's onLog hook,
// dispatching on the event's type for a distinct symbol.
func (d *Display) Log(eventType, message string) {
	switch eventType {
	case "locking_violation":
		d.Warning(message)
	case "decision_warning":
		d.Warning(message)
	case "concern":
		d.Info("concern", message)
	case "error":
		d.Error(message)
	case "terminate":
		d.Success(message)
	default:
		d.Status(d.theme.Dim("·"), message)
	}
}

// Terminate prints the final termination summary.
func (d *Display) Terminate(success bool, round int, reason string, stability float64) {
	symbol := d.theme.Success(SymbolSuccess)
	if !success {
		symbol = d.theme.Error(SymbolError)
	}
	fmt.Printf("\n%s Terminated after round %d: %s (stability %.2f)\n", symbol, round, reason, stability)
}

func (d *Display) padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Truncate truncates text to max length with an ellipsis.
func Truncate(s string, max int) string {
	s = CleanText(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// CleanText removes newlines and collapses repeated spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
