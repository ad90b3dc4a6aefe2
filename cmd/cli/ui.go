package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/sevigo/code-sentry/internal/core"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

func printStatusBadge(status core.ReviewStatus) {
	switch status {
	case core.ReviewStatusCompleted:
		color.New(color.BgGreen, color.FgWhite, color.Bold).Printf(" %s ", status)
	case core.ReviewStatusFailed:
		color.New(color.BgRed, color.FgWhite, color.Bold).Printf(" %s ", status)
	default:
		color.New(color.BgWhite, color.FgBlack).Printf(" %s ", status)
	}
}

// renderMarkdown renders review text for the terminal, falling back to the
// raw text when stdout is not something glamour can style.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printRecord(rec *core.ReviewRecord) {
	separator := strings.Repeat("═", 60)

	fmt.Println()
	titleColor.Println(separator)
	printStatusBadge(rec.Status)
	boldColor.Printf(" #%d %s\n", rec.PRNumber, rec.PRTitle)
	dimColor.Printf("%s · %s\n", rec.PRURL, rec.CreatedAt.Format("2006-01-02 15:04"))
	titleColor.Println(separator)

	if rec.Status == core.ReviewStatusFailed {
		errorColor.Fprintln(os.Stdout, rec.ReviewText)
		return
	}
	fmt.Print(renderMarkdown(rec.ReviewText))
}
