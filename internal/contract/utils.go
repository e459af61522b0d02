package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aeroindex/aeroindex/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	VeryHighColor  = color.New(color.FgRed, color.Bold)     // VeryHighColor represents standard danger.
	HighColor      = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ModerateColor  = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	LowColor       = color.New(color.FgGreen)               // LowColor represents acceptable risk.
	HighlightColor = color.New(color.FgCyan, color.Bold)    // HighlightColor marks the selected service level.
)

// GetColorLabel returns a colored risk level for console output (table).
func GetColorLabel(level schema.RiskLevel) string {
	text := string(level)

	switch level {
	case schema.VeryHighRisk:
		return VeryHighColor.Sprint(text)
	case schema.HighRisk:
		return HighColor.Sprint(text)
	case schema.ModerateRisk:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetTablesDBFilePath returns the path to the SQLite DB file holding score tables.
func GetTablesDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".aeroindex_tables.db"
	}
	return filepath.Join(homeDir, ".aeroindex_tables.db")
}

// ExportFileName returns the default file name of an exported assessment.
// An empty identifier is replaced by "entry".
func ExportFileName(identifier string, mode schema.OutputMode) string {
	id := strings.TrimSpace(identifier)
	if id == "" {
		id = "entry"
	}
	id = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, id)
	return fmt.Sprintf("aerodrome_assessment_%s.%s", id, mode.Extension())
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
