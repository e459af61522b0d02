package schema

// Option is one answer a category offers, paired with its label score.
type Option struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// Category is a questionnaire dimension with its options in display order.
type Category struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Adjustment is the service-group-specific contribution of a category/label-score pair.
// Value feeds the group sub-total; Percentage is informational only.
type Adjustment struct {
	Value      float64 `json:"value" yaml:"value"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// LabelScoreTable maps category -> option label -> label score.
type LabelScoreTable map[string]map[string]int

// AdjustmentTable maps group -> category -> label score -> adjustment.
type AdjustmentTable map[ServiceGroup]map[string]map[int]Adjustment

// Selection maps each category to the chosen option label.
type Selection map[string]string

// Movements holds the annual movement counts of both disciplines.
type Movements struct {
	IFR float64 `json:"ifr"`
	VFR float64 `json:"vfr"`
}

// AssessmentInput bundles everything a single assessment needs besides the tables.
type AssessmentInput struct {
	Identifier string       // free-text aerodrome identifier
	Selection  Selection    // one label per category
	Movements  Movements    // annual IFR/VFR movements
	Highlight  ServiceLevel // service level to report as "selected"; empty = Unattended
}

// SelectedAnswer echoes one answered question with its label score.
type SelectedAnswer struct {
	Category string `json:"question"`
	Label    string `json:"selected_answer"`
	Score    int    `json:"score"`
}

// GroupTotal is the sub-total of one adjustment group.
type GroupTotal struct {
	Group ServiceGroup `json:"group"`
	Raw   float64      `json:"raw"`
	Total int          `json:"total"`
}

// LevelIndex is the weighted normalised index of one service level.
type LevelIndex struct {
	Level    ServiceLevel `json:"aerodrome_type"`
	IFRGroup ServiceGroup `json:"ifr_group"`
	VFRGroup ServiceGroup `json:"vfr_group"`
	Raw      float64      `json:"raw"`
	Index    int          `json:"weighted_index"`
}

// Contribution records what one selected category adds to one group.
// Present is false when the group has no rule for the category/score pair.
type Contribution struct {
	Category   string       `json:"category"`
	Discipline Discipline   `json:"discipline"`
	Group      ServiceGroup `json:"group"`
	Score      int          `json:"label_score"`
	Value      float64      `json:"value"`
	Percentage float64      `json:"percentage"`
	Present    bool         `json:"present"`
}

// AssessmentResult is the full, derived outcome of one assessment.
type AssessmentResult struct {
	AssessmentID     string           `json:"assessment_id,omitempty"`
	Identifier       string           `json:"identifier"`
	Answers          []SelectedAnswer `json:"answers"`
	BaseScore        int              `json:"base_score"`
	RiskLevel        RiskLevel        `json:"risk_level"`
	Movements        Movements        `json:"movements"`
	IFRRatio         float64          `json:"ifr_ratio"`
	VFRRatio         float64          `json:"vfr_ratio"`
	DefaultRatioUsed bool             `json:"default_ratio_used"`
	Normalization    float64          `json:"normalization"`
	IFRTotals        []GroupTotal     `json:"ifr_totals"`
	VFRTotals        []GroupTotal     `json:"vfr_totals"`
	Indices          []LevelIndex     `json:"indices"`
	Contributions    []Contribution   `json:"contributions,omitempty"`
	Selected         ServiceLevel     `json:"selected_aerodrome"`
	SelectedIndex    int              `json:"selected_index"`
}
