package outwriter

import (
	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAssessment prints an assessment using the configured output format.
func (ow *OutWriter) WriteAssessment(result schema.AssessmentResult, cfg *contract.Config) error {
	return PrintAssessment(result, cfg)
}

// WriteQuestionnaire prints the questionnaire using the configured output format.
func (ow *OutWriter) WriteQuestionnaire(categories []schema.Category, cfg *contract.Config) error {
	return PrintQuestionnaire(categories, cfg)
}

// WriteClassification prints a classified base score using the configured output format.
func (ow *OutWriter) WriteClassification(c Classification, cfg *contract.Config) error {
	return PrintClassification(c, cfg)
}
