package contract

import (
	"fmt"
	"math"
	"strings"

	"github.com/aeroindex/aeroindex/internal/tables"
	"github.com/aeroindex/aeroindex/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 2
	MaxPrecision       = 4
	DefaultPort        = 8700
	DefaultMetricsPort = 8701
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
)

// Config holds the runtime configuration for an assessment session.
// This struct is the "final, validated" config.
type Config struct {
	Tables tables.Paths

	TableBackend   schema.DatabaseBackend
	TableDBConnect string // Please use env var as this is plaintext

	Identifier  string
	Movements   schema.Movements
	AnswersFile string
	Selection   schema.Selection
	Highlight   schema.ServiceLevel

	Normalization      float64
	DefaultIFRRatio    float64
	DefaultIFRRatioSet bool // DefaultIFRRatio was given explicitly, so 0 is a real share

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Explain    bool
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Port        int
	MetricsPort int
	LogLevel    string
	LogFormat   string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Table sources ---
	Scores         string `mapstructure:"scores"`
	AdjustedIFR    string `mapstructure:"adjusted-ifr"`
	AdjustedVFR    string `mapstructure:"adjusted-vfr"`
	TableBackend   string `mapstructure:"table-backend"`
	TableDBConnect string `mapstructure:"table-db-connect"`

	// --- Assessment inputs ---
	Identifier    string   `mapstructure:"identifier"`
	IFRMovements  float64  `mapstructure:"ifr-movements"`
	VFRMovements  float64  `mapstructure:"vfr-movements"`
	Answers       string   `mapstructure:"answers"`
	Answer        []string `mapstructure:"answer"`
	AerodromeType string   `mapstructure:"aerodrome-type"`

	// Explicitly-set markers filled from viper.IsSet, so a given 0 is told apart from an absent value.
	IFRMovementsSet    bool `mapstructure:"-"`
	VFRMovementsSet    bool `mapstructure:"-"`
	DefaultIFRRatioSet bool `mapstructure:"-"`

	// --- Calibration ---
	Normalization   float64 `mapstructure:"normalization"`
	DefaultIFRRatio float64 `mapstructure:"default-ifr-ratio"`

	// --- Output ---
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Explain    bool   `mapstructure:"explain"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	// --- Fields from serveCmd.Flags() ---
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics-port"`
	LogLevel    string `mapstructure:"log-level"`
	LogFormat   string `mapstructure:"log-format"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCalibration(cfg, input); err != nil {
		return err
	}
	if err := processServe(cfg, input); err != nil {
		return err
	}
	return processAssessmentInputs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("table-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("table-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the table database configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.TableBackend))
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.TableBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.TableBackend]; !ok {
		return fmt.Errorf("invalid table backend '%s'. must be sqlite, mysql, postgresql, none", input.TableBackend)
	}
	cfg.TableDBConnect = input.TableDBConnect
	return ValidateDatabaseConnectionString(cfg.TableBackend, cfg.TableDBConnect)
}

// validateSimpleInputs processes table paths and output settings.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Tables = tables.DefaultPaths()
	if input.Scores != "" {
		cfg.Tables.Scores = input.Scores
	}
	if input.AdjustedIFR != "" {
		cfg.Tables.IFR = input.AdjustedIFR
	}
	if input.AdjustedVFR != "" {
		cfg.Tables.VFR = input.AdjustedVFR
	}

	cfg.OutputFile = input.OutputFile
	cfg.Explain = input.Explain
	cfg.Width = input.Width

	cfg.UseColors = true
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, xlsx, parquet", input.Output)
	}
	if cfg.Output.IsBinary() && cfg.OutputFile == "" {
		return fmt.Errorf("output format '%s' requires --output-file", cfg.Output)
	}
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	return nil
}

// processCalibration validates the normalization constant and fallback ratio.
func processCalibration(cfg *Config, input *ConfigRawInput) error {
	cfg.Normalization = input.Normalization
	if cfg.Normalization == 0 {
		cfg.Normalization = schema.NormalizationConstant
	}
	if cfg.Normalization < 0 || math.IsNaN(cfg.Normalization) || math.IsInf(cfg.Normalization, 0) {
		return fmt.Errorf("normalization must be a positive number (received %v)", input.Normalization)
	}
	cfg.DefaultIFRRatio = schema.DefaultIFRRatio
	cfg.DefaultIFRRatioSet = input.DefaultIFRRatioSet || input.DefaultIFRRatio != 0
	if cfg.DefaultIFRRatioSet {
		cfg.DefaultIFRRatio = input.DefaultIFRRatio
	}
	if cfg.DefaultIFRRatio < 0 || cfg.DefaultIFRRatio > 1 || math.IsNaN(cfg.DefaultIFRRatio) {
		return fmt.Errorf("default-ifr-ratio must be between 0 and 1 (received %v)", input.DefaultIFRRatio)
	}
	return nil
}

// processServe validates the HTTP surface settings.
func processServe(cfg *Config, input *ConfigRawInput) error {
	cfg.Port = input.Port
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	cfg.MetricsPort = input.MetricsPort
	if cfg.MetricsPort == 0 {
		cfg.MetricsPort = DefaultMetricsPort
	}
	for _, p := range []int{cfg.Port, cfg.MetricsPort} {
		if p < 1 || p > 65535 {
			return fmt.Errorf("port must be between 1 and 65535 (received %d)", p)
		}
	}
	if cfg.Port == cfg.MetricsPort {
		return fmt.Errorf("port and metrics-port must differ (both %d)", cfg.Port)
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("invalid log format '%s'. must be json, text", input.LogFormat)
	}
	return nil
}

// processAssessmentInputs merges the answers file with flag values.
// Each movement count and every --answer entry overrides the file field by field.
func processAssessmentInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.AnswersFile = input.Answers
	cfg.Selection = schema.Selection{}

	var file AnswersFile
	if input.Answers != "" {
		loaded, err := LoadAnswersFile(input.Answers)
		if err != nil {
			return err
		}
		file = *loaded
		for k, v := range file.Answers {
			cfg.Selection[k] = v
		}
	}

	flagAnswers, err := ParseAnswerFlags(input.Answer)
	if err != nil {
		return err
	}
	for k, v := range flagAnswers {
		cfg.Selection[k] = v
	}

	cfg.Identifier = strings.TrimSpace(input.Identifier)
	if cfg.Identifier == "" {
		cfg.Identifier = strings.TrimSpace(file.Identifier)
	}

	cfg.Movements = schema.Movements{}
	if file.Movements != nil {
		cfg.Movements = *file.Movements
	}
	if input.IFRMovementsSet || input.IFRMovements != 0 {
		cfg.Movements.IFR = input.IFRMovements
	}
	if input.VFRMovementsSet || input.VFRMovements != 0 {
		cfg.Movements.VFR = input.VFRMovements
	}
	if err := ValidateMovements(cfg.Movements); err != nil {
		return err
	}

	level := input.AerodromeType
	if level == "" {
		level = file.AerodromeType
	}
	highlight, err := ParseHighlight(level)
	if err != nil {
		return err
	}
	cfg.Highlight = highlight
	return nil
}

// ValidateMovements rejects negative or non-finite movement counts.
func ValidateMovements(m schema.Movements) error {
	for name, v := range map[string]float64{"ifr-movements": m.IFR, "vfr-movements": m.VFR} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a non-negative number (received %v)", name, v)
		}
	}
	return nil
}

// ParseHighlight resolves the highlighted service level; empty means Unattended.
func ParseHighlight(s string) (schema.ServiceLevel, error) {
	if strings.TrimSpace(s) == "" {
		return schema.Unattended, nil
	}
	level, ok := schema.ParseServiceLevel(s)
	if !ok {
		return "", fmt.Errorf("invalid aerodrome type '%s'. must be Unattended, UNICOM/AWIB, AFIS, ATC", s)
	}
	return level, nil
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
