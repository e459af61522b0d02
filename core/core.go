// Package core has core logic for scoring, classification and table management.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/internal/outwriter"
	"github.com/aeroindex/aeroindex/internal/tabledb"
	"github.com/aeroindex/aeroindex/internal/tables"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/google/uuid"
)

// LoadTables reads the score tables from the configured source:
// the YAML documents when no table database is configured, the database otherwise.
func LoadTables(ctx context.Context, cfg *contract.Config) (*tables.Store, error) {
	if cfg.TableBackend == "" || cfg.TableBackend == schema.NoneBackend {
		return tables.LoadYAML(cfg.Tables)
	}
	db, err := tabledb.Open(cfg.TableBackend, cfg.TableDBConnect)
	if err != nil {
		return nil, &tables.ConfigurationError{Source: string(cfg.TableBackend), Err: err}
	}
	defer func() { _ = db.Close() }()
	return db.Load(ctx)
}

// NewTableCache returns a cache that loads the tables from the configured source on first use.
func NewTableCache(cfg *contract.Config) *tables.Cache {
	return tables.NewCache(func(ctx context.Context) (*tables.Store, error) {
		return LoadTables(ctx, cfg)
	})
}

// AssessmentInputFrom builds the engine input from a validated config.
func AssessmentInputFrom(cfg *contract.Config) schema.AssessmentInput {
	return schema.AssessmentInput{
		Identifier: cfg.Identifier,
		Selection:  cfg.Selection,
		Movements:  cfg.Movements,
		Highlight:  cfg.Highlight,
	}
}

// RunAssessment scores one aerodrome against the current tables and stamps it with a fresh id.
func RunAssessment(ctx context.Context, engine Engine, provider contract.TableProvider, in schema.AssessmentInput) (schema.AssessmentResult, error) {
	store, err := provider.Get(ctx)
	if err != nil {
		return schema.AssessmentResult{}, err
	}
	result, err := engine.Assess(store, in)
	if err != nil {
		return schema.AssessmentResult{}, err
	}
	result.AssessmentID = uuid.NewString()
	return result, nil
}

// ExecuteAssess runs a single assessment and prints it.
// It serves as the main entry point for the 'assess' command.
func ExecuteAssess(ctx context.Context, cfg *contract.Config, provider contract.TableProvider) error {
	result, err := RunAssessment(ctx, NewEngine(cfg), provider, AssessmentInputFrom(cfg))
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAssessment(result, cfg)
}

// ExecuteQuestionnaire prints every category with its options.
func ExecuteQuestionnaire(ctx context.Context, cfg *contract.Config, provider contract.TableProvider) error {
	store, err := provider.Get(ctx)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteQuestionnaire(store.Categories(), cfg)
}

// ExecuteClassify prints the risk level of a base score.
func ExecuteClassify(cfg *contract.Config, score int) error {
	c := outwriter.Classification{Score: score, RiskLevel: ClassifyRisk(score)}
	return outwriter.NewOutWriter().WriteClassification(c, cfg)
}

// requireTableDB rejects table commands when no database backend is configured.
func requireTableDB(cfg *contract.Config) error {
	if cfg.TableBackend == "" || cfg.TableBackend == schema.NoneBackend {
		return errors.New("no table database configured, set --table-backend to sqlite, mysql or postgresql")
	}
	return nil
}

// ExecuteTablesImport copies the YAML tables into the configured table database.
func ExecuteTablesImport(ctx context.Context, cfg *contract.Config, w io.Writer) error {
	if err := requireTableDB(cfg); err != nil {
		return err
	}
	store, err := tables.LoadYAML(cfg.Tables)
	if err != nil {
		return err
	}
	db, err := tabledb.Open(cfg.TableBackend, cfg.TableDBConnect)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	source := strings.Join([]string{cfg.Tables.Scores, cfg.Tables.IFR, cfg.Tables.VFR}, ", ")
	id, err := db.Import(ctx, store, source)
	if err != nil {
		return err
	}
	categories, options, rules := store.Counts()
	_, _ = fmt.Fprintf(w, "Imported %d categories, %d options and %d adjustment rules into %s (import #%d)\n",
		categories, options, rules, cfg.TableBackend, id)
	return nil
}

// ExecuteTablesExport writes the tables held in the database back to YAML documents in dir.
func ExecuteTablesExport(ctx context.Context, cfg *contract.Config, dir string, w io.Writer) error {
	if err := requireTableDB(cfg); err != nil {
		return err
	}
	db, err := tabledb.Open(cfg.TableBackend, cfg.TableDBConnect)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	store, err := db.Load(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	paths := tables.Paths{
		Scores: filepath.Join(dir, tables.DefaultScoresFile),
		IFR:    filepath.Join(dir, tables.DefaultIFRFile),
		VFR:    filepath.Join(dir, tables.DefaultVFRFile),
	}
	files := make([]*os.File, 0, 3)
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	for _, p := range []string{paths.Scores, paths.IFR, paths.VFR} {
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", p, err)
		}
		files = append(files, f)
	}
	if err := tables.EncodeYAML(store, files[0], files[1], files[2]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "💾 Exported tables to %s, %s and %s\n", paths.Scores, paths.IFR, paths.VFR)
	return nil
}

// ExecuteTablesStatus prints what the table database currently holds.
func ExecuteTablesStatus(ctx context.Context, cfg *contract.Config, w io.Writer) error {
	if err := requireTableDB(cfg); err != nil {
		return err
	}
	db, err := tabledb.Open(cfg.TableBackend, cfg.TableDBConnect)
	if err != nil {
		tabledb.PrintTableStatus(w, schema.TableStatus{Backend: cfg.TableBackend})
		return err
	}
	defer func() { _ = db.Close() }()
	status, err := db.Status(ctx)
	if err != nil {
		return err
	}
	tabledb.PrintTableStatus(w, status)
	return nil
}

// ExecuteTablesClear removes the stored tables.
func ExecuteTablesClear(cfg *contract.Config, w io.Writer) error {
	if err := requireTableDB(cfg); err != nil {
		return err
	}
	if err := tabledb.Clear(cfg.TableBackend, cfg.TableDBConnect); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Cleared %s table database\n", cfg.TableBackend)
	return nil
}

// ExecuteTablesMigrate moves the table database schema to targetVersion (negative means latest).
func ExecuteTablesMigrate(cfg *contract.Config, targetVersion int, w io.Writer) error {
	if err := requireTableDB(cfg); err != nil {
		return err
	}
	return tabledb.Migrate(cfg.TableBackend, cfg.TableDBConnect, targetVersion, w)
}
