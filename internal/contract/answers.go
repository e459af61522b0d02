package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/aeroindex/aeroindex/schema"
	"gopkg.in/yaml.v3"
)

// AnswersFile is the on-disk form of a completed questionnaire.
// JSON documents are accepted too since they parse as YAML.
type AnswersFile struct {
	Identifier    string            `yaml:"identifier"`
	AerodromeType string            `yaml:"aerodrome_type"`
	Movements     *schema.Movements `yaml:"movements"`
	Answers       map[string]string `yaml:"answers"`
}

// LoadAnswersFile reads and decodes an answers file.
// Category keys are cleaned the same way the score tables clean theirs.
func LoadAnswersFile(path string) (*AnswersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}
	var f AnswersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse answers file %s: %w", path, err)
	}
	if len(f.Answers) == 0 {
		return nil, fmt.Errorf("answers file %s has no answers", path)
	}
	answers := make(map[string]string, len(f.Answers))
	for category, label := range f.Answers {
		answers[schema.CleanCategory(category)] = label
	}
	f.Answers = answers
	return &f, nil
}

// ParseAnswerFlags turns repeated "Category=Label" values into a selection.
// Only the first '=' separates category from label.
func ParseAnswerFlags(values []string) (schema.Selection, error) {
	sel := make(schema.Selection, len(values))
	for _, v := range values {
		category, label, ok := strings.Cut(v, "=")
		category = schema.CleanCategory(category)
		label = strings.TrimSpace(label)
		if !ok || category == "" || label == "" {
			return nil, fmt.Errorf("invalid --answer %q. expected 'Category=Label'", v)
		}
		sel[category] = label
	}
	return sel, nil
}
