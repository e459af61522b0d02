package core

import (
	"math"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/schema"
)

// RoundHalfUp rounds to the nearest integer with ties away from zero (2.5 -> 3, -2.5 -> -3).
func RoundHalfUp(v float64) int {
	return int(math.Round(v))
}

// BaseScore sums the label scores of the answered categories.
func BaseScore(answers []schema.SelectedAnswer) int {
	total := 0
	for _, a := range answers {
		total += a.Score
	}
	return total
}

// GroupTotals computes the rounded sub-total of every group of a discipline.
// Answers are visited in the order given so float sums are reproducible.
// It also returns one contribution per answer that belongs to a group.
func GroupTotals(t contract.ScoreTables, d schema.Discipline, answers []schema.SelectedAnswer) ([]schema.GroupTotal, []schema.Contribution) {
	groups := schema.GroupsFor(d)
	totals := make([]schema.GroupTotal, 0, len(groups))
	var contributions []schema.Contribution

	for _, g := range groups {
		members := t.GroupCategories(d, g)
		raw := 0.0
		for _, a := range answers {
			if _, ok := members[a.Category]; !ok {
				continue
			}
			adj, ok := t.Adjustment(d, g, a.Category, a.Score)
			if ok {
				raw += adj.Value
			}
			contributions = append(contributions, schema.Contribution{
				Category:   a.Category,
				Discipline: d,
				Group:      g,
				Score:      a.Score,
				Value:      adj.Value,
				Percentage: adj.Percentage,
				Present:    ok,
			})
		}
		totals = append(totals, schema.GroupTotal{Group: g, Raw: raw, Total: RoundHalfUp(raw)})
	}
	return totals, contributions
}

// MovementRatio splits traffic into IFR and VFR shares.
// When both counts are zero the fallback IFR share is used and usedDefault is true.
func MovementRatio(m schema.Movements, fallbackIFR float64) (ifr, vfr float64, usedDefault bool) {
	total := m.IFR + m.VFR
	if total <= 0 {
		return fallbackIFR, 1 - fallbackIFR, true
	}
	ifr = m.IFR / total
	return ifr, 1 - ifr, false
}

// BlendIndex weights an IFR and a VFR sub-total by the movement shares and scales by k.
func BlendIndex(ifrTotal, vfrTotal int, ifrRatio, vfrRatio, k float64) (raw float64, index int) {
	raw = (float64(ifrTotal)*ifrRatio + float64(vfrTotal)*vfrRatio) * k
	return raw, RoundHalfUp(raw)
}
