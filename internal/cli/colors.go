package cli

import (
	"os"

	"golang.org/x/term"

	"supplytrack/internal/models"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

// isTerminal is a test seam for terminal detection.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// colorize wraps s in the ANSI code when stdout is a terminal; plain text
// otherwise, so piped output stays clean.
func colorize(code, s string) string {
	if !isTerminal() {
		return s
	}
	return code + s + ansiReset
}

// statusLabel renders a stock status with its conventional color: red for
// Low, yellow for Watch, green for OK.
func statusLabel(s models.StockStatus) string {
	switch s {
	case models.StockLow:
		return colorize(ansiRed, s.String())
	case models.StockWatch:
		return colorize(ansiYellow, s.String())
	default:
		return colorize(ansiGreen, s.String())
	}
}
