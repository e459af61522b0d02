package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aeroindex/aeroindex/core"
	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/internal/outwriter"
	"github.com/aeroindex/aeroindex/internal/tables"
	"github.com/aeroindex/aeroindex/schema"
)

// maxBodyBytes bounds assessment request bodies.
const maxBodyBytes = 1 << 20

// AssessmentsHandler serves the questionnaire, assessments and exports.
type AssessmentsHandler struct {
	provider contract.TableProvider
	cfg      *contract.Config
	metrics  *Metrics
	logger   *slog.Logger
}

// NewAssessmentsHandler builds the handler over a table provider and a validated config.
func NewAssessmentsHandler(provider contract.TableProvider, cfg *contract.Config, m *Metrics, logger *slog.Logger) *AssessmentsHandler {
	return &AssessmentsHandler{provider: provider, cfg: cfg, metrics: m, logger: logger}
}

// AssessRequest is the body of POST /assessments and /assessments/export.
type AssessRequest struct {
	Identifier    string            `json:"identifier"`
	Answers       map[string]string `json:"answers"`
	IFRMovements  float64           `json:"ifr_movements"`
	VFRMovements  float64           `json:"vfr_movements"`
	AerodromeType string            `json:"aerodrome_type,omitempty"`
}

// input validates the request and turns it into engine input.
func (req AssessRequest) input() (schema.AssessmentInput, error) {
	if len(req.Answers) == 0 {
		return schema.AssessmentInput{}, errors.New("answers required")
	}
	in := schema.AssessmentInput{
		Identifier: req.Identifier,
		Selection:  make(schema.Selection, len(req.Answers)),
		Movements:  schema.Movements{IFR: req.IFRMovements, VFR: req.VFRMovements},
	}
	for category, label := range req.Answers {
		in.Selection[schema.CleanCategory(category)] = label
	}
	if err := contract.ValidateMovements(in.Movements); err != nil {
		return schema.AssessmentInput{}, err
	}
	highlight, err := contract.ParseHighlight(req.AerodromeType)
	if err != nil {
		return schema.AssessmentInput{}, err
	}
	in.Highlight = highlight
	return in, nil
}

// Questionnaire lists every category with its options in display order.
func (h *AssessmentsHandler) Questionnaire(w http.ResponseWriter, r *http.Request) {
	store, err := h.provider.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": store.Categories()})
}

// Assess scores one aerodrome and returns the result as JSON.
// Unknown categories or labels yield 422.
func (h *AssessmentsHandler) Assess(w http.ResponseWriter, r *http.Request) {
	result, ok := h.assess(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Export scores one aerodrome and returns the result as a download.
// The format query parameter selects csv, json, xlsx or parquet and defaults to xlsx.
func (h *AssessmentsHandler) Export(w http.ResponseWriter, r *http.Request) {
	mode := schema.OutputMode(r.URL.Query().Get("format"))
	if mode == "" {
		mode = schema.XLSXOut
	}
	switch mode {
	case schema.CSVOut, schema.JSONOut, schema.XLSXOut, schema.ParquetOut:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unsupported export format %q", mode)})
		return
	}

	result, ok := h.assess(w, r)
	if !ok {
		return
	}

	// Render fully before writing headers so a failure still yields a JSON error.
	cfg := &contract.Config{Output: mode, Precision: h.cfg.Precision}
	var buf bytes.Buffer
	if err := outwriter.RenderAssessment(&buf, result, cfg); err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.Exports.WithLabelValues(string(mode)).Inc()

	w.Header().Set("Content-Type", outwriter.ContentType(mode))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", contract.ExportFileName(result.Identifier, mode)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ReloadTables re-reads the score tables. A failed reload keeps the previous tables.
func (h *AssessmentsHandler) ReloadTables(w http.ResponseWriter, r *http.Request) {
	store, err := h.provider.Reload(r.Context())
	if err != nil {
		h.metrics.TableReloads.WithLabelValues(outcomeFailed).Inc()
		h.writeError(w, err)
		return
	}
	h.metrics.TableReloads.WithLabelValues(outcomeOK).Inc()
	categories, options, rules := store.Counts()
	h.logger.Info("score tables reloaded", "categories", categories, "options", options, "rules", rules)
	writeJSON(w, http.StatusOK, map[string]int{"categories": categories, "options": options, "rules": rules})
}

// assess decodes, validates and scores one request. On failure it has already written the response.
func (h *AssessmentsHandler) assess(w http.ResponseWriter, r *http.Request) (schema.AssessmentResult, bool) {
	var req AssessRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.metrics.Assessments.WithLabelValues(outcomeRejected).Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return schema.AssessmentResult{}, false
	}
	in, err := req.input()
	if err != nil {
		h.metrics.Assessments.WithLabelValues(outcomeRejected).Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return schema.AssessmentResult{}, false
	}

	result, err := core.RunAssessment(r.Context(), core.NewEngine(h.cfg), h.provider, in)
	if err != nil {
		var lookupErr *tables.LookupError
		if errors.As(err, &lookupErr) {
			h.metrics.Assessments.WithLabelValues(outcomeRejected).Inc()
		} else {
			h.metrics.Assessments.WithLabelValues(outcomeFailed).Inc()
		}
		h.writeError(w, err)
		return schema.AssessmentResult{}, false
	}
	h.metrics.Assessments.WithLabelValues(outcomeOK).Inc()
	return result, true
}

// writeError maps typed table errors to status codes.
func (h *AssessmentsHandler) writeError(w http.ResponseWriter, err error) {
	var lookupErr *tables.LookupError
	if errors.As(err, &lookupErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":    err.Error(),
			"category": lookupErr.Category,
			"label":    lookupErr.Label,
		})
		return
	}
	h.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
