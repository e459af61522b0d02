// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/aeroindex/aeroindex/internal/tables"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/stretchr/testify/mock"
)

// ScoreTables defines the read-only lookups the scoring engine needs.
// *tables.Store satisfies it; tests can swap in MockScoreTables.
type ScoreTables interface {
	// Categories returns the questionnaire in display order.
	Categories() []schema.Category

	// LabelScore resolves an option label to its score, or fails with *tables.LookupError.
	LabelScore(category, label string) (int, error)

	// GroupCategories returns the categories with rules in a group.
	GroupCategories(d schema.Discipline, group schema.ServiceGroup) map[string]struct{}

	// Adjustment returns the rule for a category/score pair; false means no contribution.
	Adjustment(d schema.Discipline, group schema.ServiceGroup, category string, score int) (schema.Adjustment, bool)
}

// TableProvider hands out the current tables and can refresh them on demand.
// *tables.Cache satisfies it.
type TableProvider interface {
	Get(ctx context.Context) (*tables.Store, error)
	Reload(ctx context.Context) (*tables.Store, error)
}

var _ ScoreTables = (*tables.Store)(nil)

// MockScoreTables is a testify mock of ScoreTables.
type MockScoreTables struct {
	mock.Mock
}

// Categories implements ScoreTables.
func (m *MockScoreTables) Categories() []schema.Category {
	args := m.Called()
	return args.Get(0).([]schema.Category)
}

// LabelScore implements ScoreTables.
func (m *MockScoreTables) LabelScore(category, label string) (int, error) {
	args := m.Called(category, label)
	return args.Int(0), args.Error(1)
}

// GroupCategories implements ScoreTables.
func (m *MockScoreTables) GroupCategories(d schema.Discipline, group schema.ServiceGroup) map[string]struct{} {
	args := m.Called(d, group)
	return args.Get(0).(map[string]struct{})
}

// Adjustment implements ScoreTables.
func (m *MockScoreTables) Adjustment(d schema.Discipline, group schema.ServiceGroup, category string, score int) (schema.Adjustment, bool) {
	args := m.Called(d, group, category, score)
	return args.Get(0).(schema.Adjustment), args.Bool(1)
}
