// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/aeroindex/aeroindex/internal/contract"
	"golang.org/x/term"
)

// GetMaxTextColumnWidth calculates the maximum width of the question and answer
// columns in table output based on terminal width and table configuration.
func GetMaxTextColumnWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the row number and score columns with borders/padding
	baseWidth := 20

	// Question and answer share what is left
	available := (termWidth - baseWidth) / 2
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
