package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aeroindex/aeroindex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:    "text",
		Precision: DefaultPrecision,
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "yaml" }, expectError: true},
		{name: "xlsx without output file", mutate: func(in *ConfigRawInput) { in.Output = "xlsx" }, expectError: true},
		{name: "xlsx with output file", mutate: func(in *ConfigRawInput) { in.Output = "XLSX"; in.OutputFile = "out.xlsx" }},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 9 }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "negative movements", mutate: func(in *ConfigRawInput) { in.IFRMovements = -5 }, expectError: true},
		{name: "negative normalization", mutate: func(in *ConfigRawInput) { in.Normalization = -0.1 }, expectError: true},
		{name: "ratio above one", mutate: func(in *ConfigRawInput) { in.DefaultIFRRatio = 1.5 }, expectError: true},
		{name: "unknown aerodrome type", mutate: func(in *ConfigRawInput) { in.AerodromeType = "Tower" }, expectError: true},
		{name: "bad answer flag", mutate: func(in *ConfigRawInput) { in.Answer = []string{"oops"} }, expectError: true},
		{name: "missing answers file", mutate: func(in *ConfigRawInput) { in.Answers = "/does/not/exist.yaml" }, expectError: true},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.TableBackend = "oracle" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.TableBackend = "mysql" }, expectError: true},
		{name: "same ports", mutate: func(in *ConfigRawInput) { in.Port = 9000; in.MetricsPort = 9000 }, expectError: true},
		{name: "port out of range", mutate: func(in *ConfigRawInput) { in.Port = 70000 }, expectError: true},
		{name: "invalid log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "trace" }, expectError: true},
		{name: "invalid log format", mutate: func(in *ConfigRawInput) { in.LogFormat = "xml" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{}))

	assert.Equal(t, "scores.yaml", cfg.Tables.Scores)
	assert.Equal(t, "adjusted_ifr.yaml", cfg.Tables.IFR)
	assert.Equal(t, "adjusted_vfr.yaml", cfg.Tables.VFR)
	assert.Equal(t, schema.NoneBackend, cfg.TableBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.Unattended, cfg.Highlight)
	assert.Equal(t, schema.NormalizationConstant, cfg.Normalization)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultMetricsPort, cfg.MetricsPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.UseColors)
	assert.Empty(t, cfg.Selection)
}

func TestProcessAndValidateMergesAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
identifier: FROMFILE
aerodrome_type: ATC
movements: {ifr: 100, vfr: 300}
answers:
  Terrain: Flat
  Runway Length: Long
`), 0o644))

	t.Run("file values fill gaps", func(t *testing.T) {
		input := validInput()
		input.Answers = path
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))

		assert.Equal(t, "FROMFILE", cfg.Identifier)
		assert.Equal(t, schema.ATC, cfg.Highlight)
		assert.Equal(t, schema.Movements{IFR: 100, VFR: 300}, cfg.Movements)
		assert.Equal(t, schema.Selection{"Terrain": "Flat", "Runway Length": "Long"}, cfg.Selection)
	})

	t.Run("flags override file", func(t *testing.T) {
		input := validInput()
		input.Answers = path
		input.Identifier = "EGXX"
		input.AerodromeType = "afis"
		input.VFRMovements = 50
		input.Answer = []string{"Terrain=Hilly"}
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))

		assert.Equal(t, "EGXX", cfg.Identifier)
		assert.Equal(t, schema.AFIS, cfg.Highlight)
		assert.Equal(t, schema.Movements{IFR: 100, VFR: 50}, cfg.Movements)
		assert.Equal(t, "Hilly", cfg.Selection["Terrain"])
		assert.Equal(t, "Long", cfg.Selection["Runway Length"])
	})
}

func TestProcessAndValidateMovementsMergePerField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
movements: {ifr: 12000, vfr: 36000}
answers:
  Meteorology: Benign
`), 0o644))

	tests := []struct {
		name     string
		mutate   func(*ConfigRawInput)
		expected schema.Movements
	}{
		{name: "no flags", mutate: func(*ConfigRawInput) {}, expected: schema.Movements{IFR: 12000, VFR: 36000}},
		{name: "only ifr flag", mutate: func(in *ConfigRawInput) { in.IFRMovements = 5000 }, expected: schema.Movements{IFR: 5000, VFR: 36000}},
		{name: "only vfr flag", mutate: func(in *ConfigRawInput) { in.VFRMovements = 800 }, expected: schema.Movements{IFR: 12000, VFR: 800}},
		{
			name: "explicit zeros clear the file counts",
			mutate: func(in *ConfigRawInput) {
				in.IFRMovementsSet = true
				in.VFRMovementsSet = true
			},
			expected: schema.Movements{},
		},
		{name: "explicit zero ifr only", mutate: func(in *ConfigRawInput) { in.IFRMovementsSet = true }, expected: schema.Movements{IFR: 0, VFR: 36000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.Answers = path
			tt.mutate(input)
			cfg := &Config{}
			require.NoError(t, ProcessAndValidate(cfg, input))
			assert.Equal(t, tt.expected, cfg.Movements)
		})
	}
}

func TestProcessAndValidateDefaultIFRRatio(t *testing.T) {
	tests := []struct {
		name        string
		ratio       float64
		set         bool
		expected    float64
		expectedSet bool
	}{
		{name: "absent uses built-in share", expected: schema.DefaultIFRRatio},
		{name: "explicit zero is kept", set: true, expected: 0, expectedSet: true},
		{name: "explicit share", ratio: 0.6, set: true, expected: 0.6, expectedSet: true},
		{name: "nonzero without marker", ratio: 1, expected: 1, expectedSet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.DefaultIFRRatio = tt.ratio
			input.DefaultIFRRatioSet = tt.set
			cfg := &Config{}
			require.NoError(t, ProcessAndValidate(cfg, input))
			assert.Equal(t, tt.expected, cfg.DefaultIFRRatio)
			assert.Equal(t, tt.expectedSet, cfg.DefaultIFRRatioSet)
		})
	}
}

func TestAnswerKeysAreCleaned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("answers:\n  \"Runway\\nconfiguration \": Single runway\n"), 0o644))

	input := validInput()
	input.Answers = path
	input.Answer = []string{" Traffic\r\ncircuit = Standard"}
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.Selection{
		"Runway configuration": "Single runway",
		"Traffic circuit":      "Standard",
	}, cfg.Selection)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		conn        string
		expectError bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/tables", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql without tcp", schema.MySQLBackend, "user:pass@localhost/tables", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=tables", false},
		{"postgres without host", schema.PostgreSQLBackend, "dbname=tables", true},
		{"postgres without dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
