package core

import (
	"sort"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/internal/tables"
	"github.com/aeroindex/aeroindex/schema"
)

// Engine turns a complete selection into per-service-level indices.
// An Engine holds only calibration values; Assess does no I/O and mutates nothing.
type Engine struct {
	Normalization   float64 // scale applied to blended sub-totals
	DefaultIFRRatio float64 // IFR share used when no movements are recorded
}

// DefaultEngine returns an Engine with the published calibration.
func DefaultEngine() Engine {
	return Engine{Normalization: schema.NormalizationConstant, DefaultIFRRatio: schema.DefaultIFRRatio}
}

// NewEngine returns an Engine calibrated from a validated config.
func NewEngine(cfg *contract.Config) Engine {
	e := DefaultEngine()
	if cfg.Normalization > 0 {
		e.Normalization = cfg.Normalization
	}
	if cfg.DefaultIFRRatioSet || cfg.DefaultIFRRatio > 0 {
		e.DefaultIFRRatio = cfg.DefaultIFRRatio
	}
	return e
}

// ResolveAnswers pairs every category of the questionnaire with its selected label and score.
// A missing answer or an unknown category or label yields a *tables.LookupError.
func ResolveAnswers(t contract.ScoreTables, sel schema.Selection) ([]schema.SelectedAnswer, error) {
	categories := t.Categories()
	known := make(map[string]struct{}, len(categories))
	answers := make([]schema.SelectedAnswer, 0, len(categories))

	for _, c := range categories {
		known[c.Name] = struct{}{}
		label, ok := sel[c.Name]
		if !ok {
			return nil, tables.MissingSelection(c.Name)
		}
		score, err := t.LabelScore(c.Name, label)
		if err != nil {
			return nil, err
		}
		answers = append(answers, schema.SelectedAnswer{Category: c.Name, Label: label, Score: score})
	}

	var extra []string
	for name := range sel {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		_, err := t.LabelScore(extra[0], sel[extra[0]])
		if err == nil {
			err = &tables.LookupError{Category: extra[0], Reason: tables.ReasonUnknownCategory}
		}
		return nil, err
	}
	return answers, nil
}

// Assess runs the whole scoring pipeline for one aerodrome.
func (e Engine) Assess(t contract.ScoreTables, in schema.AssessmentInput) (schema.AssessmentResult, error) {
	answers, err := ResolveAnswers(t, in.Selection)
	if err != nil {
		return schema.AssessmentResult{}, err
	}

	base := BaseScore(answers)
	ifrTotals, ifrContrib := GroupTotals(t, schema.IFR, answers)
	vfrTotals, vfrContrib := GroupTotals(t, schema.VFR, answers)
	ifrRatio, vfrRatio, usedDefault := MovementRatio(in.Movements, e.DefaultIFRRatio)

	result := schema.AssessmentResult{
		Identifier:       in.Identifier,
		Answers:          answers,
		BaseScore:        base,
		RiskLevel:        ClassifyRisk(base),
		Movements:        in.Movements,
		IFRRatio:         ifrRatio,
		VFRRatio:         vfrRatio,
		DefaultRatioUsed: usedDefault,
		Normalization:    e.Normalization,
		IFRTotals:        ifrTotals,
		VFRTotals:        vfrTotals,
		Contributions:    append(ifrContrib, vfrContrib...),
	}

	for _, level := range schema.AllServiceLevels {
		ifrGroup, _ := schema.GroupFor(level, schema.IFR)
		vfrGroup, _ := schema.GroupFor(level, schema.VFR)
		v1, _ := result.TotalFor(schema.IFR, ifrGroup)
		v2, _ := result.TotalFor(schema.VFR, vfrGroup)
		raw, index := BlendIndex(v1, v2, ifrRatio, vfrRatio, e.Normalization)
		result.Indices = append(result.Indices, schema.LevelIndex{
			Level:    level,
			IFRGroup: ifrGroup,
			VFRGroup: vfrGroup,
			Raw:      raw,
			Index:    index,
		})
	}

	result.Selected = in.Highlight
	if result.Selected == "" {
		result.Selected = schema.Unattended
	}
	result.SelectedIndex, _ = result.IndexFor(result.Selected)
	return result, nil
}

// Assess runs the pipeline with the default calibration.
func Assess(t contract.ScoreTables, in schema.AssessmentInput) (schema.AssessmentResult, error) {
	return DefaultEngine().Assess(t, in)
}
