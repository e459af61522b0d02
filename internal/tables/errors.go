package tables

import "fmt"

// LookupError reports a selection that cannot be resolved against the label-score table.
type LookupError struct {
	Category string
	Label    string // empty when the category itself is the problem
	Reason   string
}

func (e *LookupError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("category %q: %s", e.Category, e.Reason)
	}
	return fmt.Sprintf("category %q option %q: %s", e.Category, e.Label, e.Reason)
}

// Lookup failure reasons.
const (
	ReasonUnknownCategory = "unknown category"
	ReasonUnknownOption   = "unknown option"
	ReasonMissing         = "no option selected"
)

func unknownCategory(category string) *LookupError {
	return &LookupError{Category: category, Reason: ReasonUnknownCategory}
}

func unknownOption(category, label string) *LookupError {
	return &LookupError{Category: category, Label: label, Reason: ReasonUnknownOption}
}

// MissingSelection builds the error returned when a category has no selected option.
func MissingSelection(category string) *LookupError {
	return &LookupError{Category: category, Reason: ReasonMissing}
}

// ConfigurationError reports a score table source that is missing or unreadable.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("score tables from %s: %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
