package outwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aeroindex/aeroindex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "raw index at default precision", precision: 2, value: 5.3454, expected: "5.35"},
		{name: "movement share at four places", precision: 4, value: 1.0 / 3.0, expected: "0.3333"},
		{name: "raw index rounded to whole", precision: 0, value: 36.8, expected: "37"},
		{name: "negative percentage", precision: 2, value: -7.126, expected: "-7.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestFormatCell(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "label", value: "Hilly", expected: "Hilly"},
		{name: "label score", value: 7, expected: "7"},
		{name: "movement count", value: 10000.0, expected: "10000"},
		{name: "movement share", value: 0.25, expected: "0.25"},
		{name: "flag", value: true, expected: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCell(tt.value, fmtFloat, intFmt))
		})
	}
}

func TestWriteJSONClassification(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, Classification{Score: 42, RiskLevel: schema.HighRisk}))
	assert.Equal(t, "{\n  \"score\": 42,\n  \"risk_level\": \"High\"\n}\n", buf.String())
}

func TestWriteJSONRejectsNonFiniteCell(t *testing.T) {
	sh := schema.Sheet{Name: "Indices", Header: []string{"Raw"}, Rows: [][]any{{math.Inf(1)}}}
	err := writeJSON(io.Discard, sh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeaderQuestionnaire(t *testing.T) {
	categories := []schema.Category{
		{Name: "Runway configuration", Options: []schema.Option{{Label: "Single runway", Score: 1}, {Label: "Two crossing runways", Score: 4}}},
		{Name: "Terrain and vegetation", Options: []schema.Option{{Label: "Flat, open", Score: 1}}},
	}

	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"question", "option", "label_score"}, func(cw *csv.Writer) error {
		for _, c := range categories {
			for _, o := range c.Options {
				if err := cw.Write([]string{c.Name, o.Label, formatCell(o.Score, nil, "%d")}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	require.NoError(t, err)

	expected := "question,option,label_score\n" +
		"Runway configuration,Single runway,1\n" +
		"Runway configuration,Two crossing runways,4\n" +
		"Terrain and vegetation,\"Flat, open\",1\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteCSVWithHeaderRowError(t *testing.T) {
	errLookup := errors.New("unknown label")
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"Base Score", "Risk Level"}, func(*csv.Writer) error {
		return errLookup
	})
	assert.ErrorIs(t, err, errLookup)
	assert.Equal(t, "Base Score,Risk Level\n", buf.String())
}

func TestWriteSheetsCSVSeparatesBlocks(t *testing.T) {
	sheets := []schema.Sheet{
		{Name: classificationSheet, Header: []string{"Base Score", "Risk Level"}, Rows: [][]any{{19, string(schema.LowRisk)}}},
		questionnaireSheetOf([]schema.Category{{Name: "Meteorology", Options: []schema.Option{{Label: "Benign", Score: 1}}}}),
	}
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeSheetsCSV(&buf, sheets, fmtFloat, intFmt))
	expected := "Classification\nBase Score,Risk Level\n19,Low\n" +
		"\n" +
		"Questionnaire\nQuestion,Option,Label Score\nMeteorology,Benign,1\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteWithFile(t *testing.T) {
	c := Classification{Score: 56, RiskLevel: schema.VeryHighRisk}

	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "classification.json")
		require.NoError(t, writeWithFile(path, func(w io.Writer) error { return writeJSON(w, c) }, "Wrote JSON"))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"risk_level": "Very High"`)
	})

	t.Run("writer error is returned", func(t *testing.T) {
		errRender := errors.New("render failed")
		path := filepath.Join(t.TempDir(), "classification.csv")
		err := writeWithFile(path, func(io.Writer) error { return errRender }, "Wrote CSV")
		assert.ErrorIs(t, err, errRender)
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "no-such-dir", "classification.json")
		err := writeWithFile(path, func(w io.Writer) error { return writeJSON(w, c) }, "Wrote JSON")
		assert.Error(t, err)
	})
}
