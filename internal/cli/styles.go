package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#7D56F4") // Songdata violet
	accentColor  = lipgloss.Color("#FFA500") // Orange
	successColor = lipgloss.Color("#00AA00") // Green
	errorColor   = lipgloss.Color("#A40000") // Red
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	SequenceStyle = lipgloss.NewStyle().
			Foreground(accentColor)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("Songdata ♫"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintSongSummary reports a successful extraction
func PrintSongSummary(w io.Writer, outputPath string, song *types.SongData) {
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("✓ Song data saved to"), ValueStyle.Render(outputPath))
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("BPM:     "), ValueStyle.Render(fmt.Sprintf("%d", song.BPM)))
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("Melody:  "), SequenceStyle.Render(FormatSequence(song.Melody, 8)))
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("Bassline:"), SequenceStyle.Render(FormatSequence(song.Bassline, 8)))
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("Rhythm:  "), SequenceStyle.Render(FormatSequence(song.Rhythm, 8)))
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("Lead:    "), SequenceStyle.Render(FormatSequence(song.Lead, 8)))
}

// FormatSequence renders the first max values of seq followed by its length
func FormatSequence(seq []float64, max int) string {
	var sb strings.Builder
	for i, v := range seq {
		if i == max {
			sb.WriteString(" …")
			break
		}
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(formatValue(v))
	}
	sb.WriteString(fmt.Sprintf(" (%d)", len(seq)))
	return sb.String()
}

func formatValue(v float64) string {
	if v >= 100 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
