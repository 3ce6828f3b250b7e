// Package handlers provides the HTTP request handlers for the
// interactions API: catalog lookups, interaction checks, dosage guidance
// and full prescription analysis, with per-item error reporting.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medsafe/interactions-api/engine"
	"github.com/medsafe/interactions-api/interfaces"
	"github.com/medsafe/interactions-api/logging"
	"github.com/medsafe/interactions-api/metrics"
)

// Handler bundles the injected dependencies of all endpoints.
type Handler struct {
	dataStore interfaces.DataStore
	validator interfaces.DataValidator
	checker   interfaces.HealthChecker
	assembler *engine.Assembler
}

// NewHandler creates a handler set with injected dependencies.
func NewHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, checker interfaces.HealthChecker) *Handler {
	return &Handler{
		dataStore: dataStore,
		validator: validator,
		checker:   checker,
		assembler: engine.NewAssembler(dataStore),
	}
}

// RespondWithJSON writes a JSON response.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// decodeJSON parses a request body into dst with unknown fields rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// ListDrugs returns all catalog entries.
func (h *Handler) ListDrugs(w http.ResponseWriter, r *http.Request) {
	cat := h.dataStore.GetCatalog()
	if cat == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Drug catalog not loaded yet")
		return
	}
	RespondWithJSON(w, http.StatusOK, cat.Drugs())
}

// ServePagedDrugs returns one page of catalog entries.
func (h *Handler) ServePagedDrugs(w http.ResponseWriter, r *http.Request) {
	cat := h.dataStore.GetCatalog()
	if cat == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Drug catalog not loaded yet")
		return
	}

	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	drugs := cat.Drugs()
	pageSize := 20
	start := (page - 1) * pageSize
	if start >= len(drugs) {
		RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	end := start + pageSize
	if end > len(drugs) {
		end = len(drugs)
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":       drugs[start:end],
		"page":       page,
		"pageSize":   pageSize,
		"totalItems": len(drugs),
		"maxPage":    (len(drugs) + pageSize - 1) / pageSize,
	})
}

// FindDrug resolves one mention to its catalog entry, with the documented
// interactions, dosage bands and contraindications of the entry attached.
func (h *Handler) FindDrug(w http.ResponseWriter, r *http.Request) {
	cat := h.dataStore.GetCatalog()
	if cat == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Drug catalog not loaded yet")
		return
	}

	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateMention(name); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	drug, ok := cat.Resolve(name)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Drug not found")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"drug":              drug,
		"interactions":      cat.InteractionsOf(drug.ID),
		"dosageBands":       cat.DosageBandsOf(drug.ID),
		"contraindications": cat.ContraindicationsOf(drug.ID),
	})
}

// InteractionsRequest is the body of POST /interactions.
type InteractionsRequest struct {
	Drugs []string `json:"drugs"`
}

// CheckInteractions resolves the given mentions and reports all pairwise
// findings among the resolvable ones. Unresolved mentions are reported
// per item and never fail the whole request.
func (h *Handler) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	cat := h.dataStore.GetCatalog()
	if cat == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Drug catalog not loaded yet")
		return
	}

	var req InteractionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	mentions := make([]engine.MentionResult, 0, len(req.Drugs))
	var ids []string
	seen := make(map[string]bool)
	for _, mention := range req.Drugs {
		if err := h.validator.ValidateMention(mention); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		drug, ok := cat.Resolve(mention)
		if !ok {
			metrics.UnresolvedMentionsTotal.Inc()
			mentions = append(mentions, engine.MentionResult{Mention: mention, Status: engine.MentionNotFound})
			continue
		}
		mentions = append(mentions, engine.MentionResult{
			Mention: mention,
			Status:  engine.MentionResolved,
			DrugID:  drug.ID,
			Name:    drug.Name,
			Class:   drug.Class,
		})
		if !seen[drug.ID] {
			seen[drug.ID] = true
			ids = append(ids, drug.ID)
		}
	}

	findings := engine.ResolveInteractions(cat, ids)
	recordFindingMetrics(findings)

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"mentions":          mentions,
		"findings":          findings,
		"aggregateSeverity": engine.AggregateSeverity(findings),
	})
}

// DosageRequest is the body of POST /dosage.
type DosageRequest struct {
	Drugs   []engine.PrescriptionEntry `json:"drugs"`
	Patient engine.PatientContext      `json:"patient"`
}

// CheckDosage returns dosage guidance per resolvable drug for the given
// patient. Drugs without a matching band yield NO_DATA guidance.
func (h *Handler) CheckDosage(w http.ResponseWriter, r *http.Request) {
	cat := h.dataStore.GetCatalog()
	if cat == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Drug catalog not loaded yet")
		return
	}

	var req DosageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Patient.Validate(); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	type dosageItem struct {
		Mention  string                 `json:"mention"`
		Status   engine.MentionStatus   `json:"status"`
		Guidance *engine.DosageGuidance `json:"guidance,omitempty"`
	}

	items := make([]dosageItem, 0, len(req.Drugs))
	for _, entry := range req.Drugs {
		if err := h.validator.ValidateMention(entry.Mention); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		drug, ok := cat.Resolve(entry.Mention)
		if !ok {
			metrics.UnresolvedMentionsTotal.Inc()
			items = append(items, dosageItem{Mention: entry.Mention, Status: engine.MentionNotFound})
			continue
		}
		guidance := engine.RecommendDosage(cat, drug.ID, req.Patient, entry.Dose)
		items = append(items, dosageItem{
			Mention:  entry.Mention,
			Status:   engine.MentionResolved,
			Guidance: &guidance,
		})
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"results": items})
}

// Analyze runs the full analysis: findings, dosage guidance and
// alternative suggestions for flagged drugs.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req engine.AnalysisRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for _, entry := range req.Prescription {
		if err := h.validator.ValidateMention(entry.Mention); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.assembler.Analyze(req)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidPatient):
			RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, engine.ErrCatalogUnavailable):
			RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			logging.Error("Analysis failed", "error", err)
			RespondWithError(w, http.StatusInternalServerError, "Analysis failed")
		}
		return
	}

	metrics.AnalysesTotal.WithLabelValues(result.AggregateSeverity.String()).Inc()
	recordFindingMetrics(result.Findings)
	for _, mention := range result.Mentions {
		if mention.Status == engine.MentionNotFound {
			metrics.UnresolvedMentionsTotal.Inc()
		}
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// HealthCheck reports service health derived from catalog state.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.checker.HealthCheck()
	data["status"] = status
	RespondWithJSON(w, httpStatus, data)
}

func recordFindingMetrics(findings []engine.Finding) {
	for _, finding := range findings {
		metrics.FindingsTotal.WithLabelValues(string(finding.Kind), finding.Severity.String()).Inc()
	}
}
