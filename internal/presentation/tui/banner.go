// Package tui holds the terminal presentation helpers for the phenogo CLI.
package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the phenogo ASCII banner with a green-to-teal fade.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"        _                                  ", "#34d399"},
		{"  _ __ | |__   ___ _ __   ___   __ _  ___  ", "#2dd4bf"},
		{" | '_ \\| '_ \\ / _ \\ '_ \\ / _ \\ / _` |/ _ \\ ", "#22d3ee"},
		{" | |_) | | | |  __/ | | | (_) | (_| | (_) |", "#38bdf8"},
		{" | .__/|_| |_|\\___|_| |_|\\___/ \\__, |\\___/ ", "#60a5fa"},
		{" |_|                           |___/       ", "#818cf8"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}

// Highlight styles a phase identifier for run summaries.
func Highlight(s string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color("#34d399")).Bold().String()
}

// Dim styles secondary run-summary text.
func Dim(s string) string {
	return termenv.String(s).Faint().String()
}
