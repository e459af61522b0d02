package core

import "github.com/aeroindex/aeroindex/schema"

// Inclusive upper bounds of the risk levels.
const (
	lowRiskMax      = 20
	moderateRiskMax = 40
	highRiskMax     = 55
)

// ClassifyRisk maps a base risk score to its qualitative level.
func ClassifyRisk(score int) schema.RiskLevel {
	switch {
	case score <= lowRiskMax:
		return schema.LowRisk
	case score <= moderateRiskMax:
		return schema.ModerateRisk
	case score <= highRiskMax:
		return schema.HighRisk
	default:
		return schema.VeryHighRisk
	}
}
