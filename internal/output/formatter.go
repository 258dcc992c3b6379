package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
)

// Formatter is the interface for user-facing output
type Formatter interface {
	Print(msg string)
	PrintButtons(labels []string) error
	PrintError(err error)
	PrintHint(msg string)
}

// New creates a formatter for the specified mode
func New(mode string) Formatter {
	switch mode {
	case "json":
		return &jsonFormatter{}
	case "plain":
		return &plainFormatter{}
	case "rich":
		profile := termenv.ColorProfile()
		return &richFormatter{profile: profile}
	default:
		return &plainFormatter{}
	}
}

// jsonFormatter outputs JSON to stdout
type jsonFormatter struct{}

func (f *jsonFormatter) encode(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *jsonFormatter) Print(msg string) {
	f.encode(map[string]string{"message": msg})
}

func (f *jsonFormatter) PrintButtons(labels []string) error {
	if labels == nil {
		labels = []string{}
	}
	return f.encode(map[string]any{
		"buttons": labels,
		"count":   len(labels),
	})
}

func (f *jsonFormatter) PrintError(err error) {
	errObj := map[string]string{"error": err.Error()}
	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	enc.Encode(errObj)
}

func (f *jsonFormatter) PrintHint(msg string) {
	// Hints are prose for humans; skip them in JSON mode
}

// plainFormatter outputs unstyled text
type plainFormatter struct{}

func (f *plainFormatter) Print(msg string) {
	fmt.Fprintln(os.Stdout, msg)
}

func (f *plainFormatter) PrintButtons(labels []string) error {
	if len(labels) == 0 {
		fmt.Fprintln(os.Stdout, "No buttons configured")
		return nil
	}
	for _, label := range labels {
		fmt.Fprintf(os.Stdout, "%s\n", label)
	}
	return nil
}

func (f *plainFormatter) PrintError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func (f *plainFormatter) PrintHint(msg string) {
	fmt.Fprintf(os.Stderr, "hint: %v\n", msg)
}

// richFormatter outputs styled content for terminal
type richFormatter struct {
	profile termenv.Profile
}

func (f *richFormatter) Print(msg string) {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	fmt.Fprintln(os.Stdout, style.Render(msg))
}

func (f *richFormatter) PrintButtons(labels []string) error {
	if len(labels) == 0 {
		faint := lipgloss.NewStyle().Faint(true)
		fmt.Fprintln(os.Stdout, faint.Render("No buttons configured"))
		return nil
	}

	RenderLabels(os.Stdout, "Button", labels)
	return nil
}

func (f *richFormatter) PrintError(err error) {
	errorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9"))

	fmt.Fprintf(os.Stderr, "%s\n", errorStyle.Render("error: "+err.Error()))
}

func (f *richFormatter) PrintHint(msg string) {
	hintStyle := lipgloss.NewStyle().
		Faint(true).
		Foreground(lipgloss.Color("8"))

	fmt.Fprintf(os.Stderr, "%s\n", hintStyle.Render("hint: "+msg))
}
