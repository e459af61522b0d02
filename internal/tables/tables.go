// Package tables holds the immutable score tables an assessment is computed from.
package tables

import (
	"github.com/aeroindex/aeroindex/schema"
)

// Store is a read-only view of the label-score table and both adjustment tables.
// A Store is never mutated after construction and is safe for concurrent use.
type Store struct {
	categories  []schema.Category
	labels      schema.LabelScoreTable
	adjustments map[schema.Discipline]schema.AdjustmentTable
}

// New builds a Store from already-decoded tables. Categories keep the order given.
// The inputs are copied so later changes by the caller do not leak into the Store.
func New(categories []schema.Category, ifr, vfr schema.AdjustmentTable) *Store {
	s := &Store{
		categories:  make([]schema.Category, 0, len(categories)),
		labels:      make(schema.LabelScoreTable, len(categories)),
		adjustments: map[schema.Discipline]schema.AdjustmentTable{schema.IFR: copyTable(ifr), schema.VFR: copyTable(vfr)},
	}
	for _, c := range categories {
		opts := make([]schema.Option, len(c.Options))
		copy(opts, c.Options)
		s.categories = append(s.categories, schema.Category{Name: c.Name, Options: opts})

		scores := make(map[string]int, len(opts))
		for _, o := range opts {
			scores[o.Label] = o.Score
		}
		s.labels[c.Name] = scores
	}
	return s
}

func copyTable(t schema.AdjustmentTable) schema.AdjustmentTable {
	out := make(schema.AdjustmentTable, len(t))
	for group, cats := range t {
		cc := make(map[string]map[int]schema.Adjustment, len(cats))
		for cat, rules := range cats {
			rr := make(map[int]schema.Adjustment, len(rules))
			for score, adj := range rules {
				rr[score] = adj
			}
			cc[cat] = rr
		}
		out[group] = cc
	}
	return out
}

// Categories returns the questionnaire in display order.
func (s *Store) Categories() []schema.Category {
	out := make([]schema.Category, len(s.categories))
	for i, c := range s.categories {
		opts := make([]schema.Option, len(c.Options))
		copy(opts, c.Options)
		out[i] = schema.Category{Name: c.Name, Options: opts}
	}
	return out
}

// LabelScore returns the score of an option label within a category.
func (s *Store) LabelScore(category, label string) (int, error) {
	scores, ok := s.labels[category]
	if !ok {
		return 0, unknownCategory(category)
	}
	score, ok := scores[label]
	if !ok {
		return 0, unknownOption(category, label)
	}
	return score, nil
}

// GroupCategories returns the categories that carry rules in a group.
// An unknown discipline or group yields an empty set.
func (s *Store) GroupCategories(d schema.Discipline, group schema.ServiceGroup) map[string]struct{} {
	cats := s.adjustments[d][group]
	out := make(map[string]struct{}, len(cats))
	for name := range cats {
		out[name] = struct{}{}
	}
	return out
}

// Adjustment returns the rule for a category/label-score pair in a group.
// The boolean is false when the group has no such rule, which counts as no contribution.
func (s *Store) Adjustment(d schema.Discipline, group schema.ServiceGroup, category string, score int) (schema.Adjustment, bool) {
	adj, ok := s.adjustments[d][group][category][score]
	return adj, ok
}

// Groups returns the groups of a discipline that are present in its table,
// in canonical order.
func (s *Store) Groups(d schema.Discipline) []schema.ServiceGroup {
	var out []schema.ServiceGroup
	for _, g := range schema.GroupsFor(d) {
		if _, ok := s.adjustments[d][g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Table returns a copy of the adjustment table of a discipline.
func (s *Store) Table(d schema.Discipline) schema.AdjustmentTable {
	return copyTable(s.adjustments[d])
}

// Counts returns the number of categories, options and adjustment rules held.
func (s *Store) Counts() (categories, options, rules int) {
	categories = len(s.categories)
	for _, c := range s.categories {
		options += len(c.Options)
	}
	for _, t := range s.adjustments {
		for _, cats := range t {
			for _, r := range cats {
				rules += len(r)
			}
		}
	}
	return categories, options, rules
}
