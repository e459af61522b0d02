package schema

import (
	"strings"
	"unicode"
)

// normalizeLevel lowercases a service level and strips spaces so that
// "Unicom / AWIB" and "unicom/awib" compare equal.
func normalizeLevel(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// CleanCategory trims a category or option label the way the table generator does:
// surrounding whitespace is dropped and embedded line breaks become spaces.
func CleanCategory(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// OptionLabels returns the labels of a category in questionnaire order.
func (c Category) OptionLabels() []string {
	labels := make([]string, len(c.Options))
	for i, o := range c.Options {
		labels[i] = o.Label
	}
	return labels
}

// IndexMap returns the four-entry mapping from service level to weighted index.
func (r AssessmentResult) IndexMap() map[ServiceLevel]int {
	out := make(map[ServiceLevel]int, len(r.Indices))
	for _, li := range r.Indices {
		out[li.Level] = li.Index
	}
	return out
}

// IndexFor returns the weighted index computed for a service level.
func (r AssessmentResult) IndexFor(level ServiceLevel) (int, bool) {
	for _, li := range r.Indices {
		if li.Level == level {
			return li.Index, true
		}
	}
	return 0, false
}

// TotalFor returns the rounded sub-total of a group.
func (r AssessmentResult) TotalFor(d Discipline, g ServiceGroup) (int, bool) {
	totals := r.IFRTotals
	if d == VFR {
		totals = r.VFRTotals
	}
	for _, gt := range totals {
		if gt.Group == g {
			return gt.Total, true
		}
	}
	return 0, false
}
