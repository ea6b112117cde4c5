/*
handlers.go - HTTP API handlers for the eligibility engine

PURPOSE:
  Exposes ruleset lookup, roster classification and cycle dates over REST.
  Handles HTTP request/response, JSON serialization, and delegates to the
  batch classifier and eligibility engine.

ENDPOINTS:
  Rulesets:
    GET    /api/rulesets                          List registered rulesets
    GET    /api/rulesets/{version}                Full ruleset as JSON
    POST   /api/rulesets                          Register a JSON ruleset

  Cycles:
    POST   /api/cycles/{grade}/{year}/classify    Classify a roster (JSON or CSV)
    POST   /api/cycles/{grade}/{year}/evaluate    Evaluate one member with trace
    GET    /api/cycles/{grade}/{year}/dates       Closeout, accounting, selection

  Samples:
    GET    /api/samples                           List built-in sample rosters
    POST   /api/samples/{id}/classify             Classify a sample roster

  Every cycle endpoint takes ?ruleset=<version>; the handler's default
  version is used when it is absent.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Registry: Rulesets by version
  - Factory: JSON to Ruleset conversion
  - Quota: Allocation calculator passed to each classification
  - Logger: Structured logger passed to each classification

  Nothing is persisted; every classification is computed from the request.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, unknown cycle grade, missing roster columns
  - 404: Unknown ruleset version or sample
  - 409: Ruleset version already registered
  - 413: Body larger than MaxBodyBytes
  - 500: Internal errors

SECURITY NOTE:
  No authentication. Rosters hold personal data; deploy behind an
  authenticating proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - samples.go: Built-in sample rosters
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/ywgi/AirForceMELGenerator/batch"
	"github.com/ywgi/AirForceMELGenerator/eligibility"
	"github.com/ywgi/AirForceMELGenerator/factory"
	"github.com/ywgi/AirForceMELGenerator/policy"
	"github.com/ywgi/AirForceMELGenerator/quota"
	"github.com/ywgi/AirForceMELGenerator/roster"
)

// MaxBodyBytes caps request bodies. An alpha roster for a wing is well under it.
const MaxBodyBytes = 16 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry       *policy.Registry
	Factory        *factory.RulesetFactory
	Quota          quota.Calculator
	Logger         *slog.Logger
	DefaultRuleset string
}

// NewHandler creates a handler serving registry. calc may be nil.
func NewHandler(registry *policy.Registry, defaultRuleset string, calc quota.Calculator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		Registry:       registry,
		Factory:        factory.NewRulesetFactory(registry),
		Quota:          calc,
		Logger:         logger,
		DefaultRuleset: defaultRuleset,
	}
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RULESET HANDLERS
// =============================================================================

// ListRulesets returns every registered ruleset.
// GET /api/rulesets
func (h *Handler) ListRulesets(w http.ResponseWriter, r *http.Request) {
	versions := h.Registry.Versions()
	dtos := make([]RulesetSummaryDTO, 0, len(versions))
	for _, v := range versions {
		rs, err := h.Registry.Lookup(v)
		if err != nil {
			continue
		}
		dtos = append(dtos, toRulesetSummary(rs, h.DefaultRuleset))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRuleset returns one ruleset in its JSON form.
// GET /api/rulesets/{version}
func (h *Handler) GetRuleset(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Registry.Lookup(chi.URLParam(r, "version"))
	if err != nil {
		writeError(w, errorStatus(err), "Ruleset not found", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.ToJSON(rs))
}

// CreateRuleset registers a JSON ruleset.
// POST /api/rulesets
func (h *Handler) CreateRuleset(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, bodyErrorStatus(err), "Failed to read request body", err)
		return
	}

	rs, err := h.Factory.ParseRuleset(data)
	if err != nil {
		writeError(w, errorStatus(err), "Invalid ruleset", err)
		return
	}
	if err := h.Registry.Register(rs); err != nil {
		writeError(w, errorStatus(err), "Failed to register ruleset", err)
		return
	}

	h.Logger.Info("ruleset registered", "version", rs.Version, "request_id", middleware.GetReqID(r.Context()))
	writeJSON(w, http.StatusCreated, toRulesetSummary(rs, h.DefaultRuleset))
}

// =============================================================================
// CYCLE HANDLERS
// =============================================================================

// Classify classifies a roster for a cycle. The body is JSON
// ({"members": [...]}) or, with Content-Type text/csv, an alpha roster.
// POST /api/cycles/{grade}/{year}/classify
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	rs, cycle, ok := h.cycleParams(w, r)
	if !ok {
		return
	}

	members, err := readRoster(w, r)
	if err != nil {
		writeError(w, bodyErrorStatus(err), "Invalid roster", err)
		return
	}

	h.classify(w, r, rs, cycle, members)
}

// Evaluate evaluates one member and returns the checks that decided it.
// POST /api/cycles/{grade}/{year}/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	rs, cycle, ok := h.cycleParams(w, r)
	if !ok {
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, bodyErrorStatus(err), "Invalid request body", err)
		return
	}

	result, checks, err := eligibility.NewEngine(rs).Trace(req.Member, cycle)
	if err != nil {
		writeError(w, errorStatus(err), "Member could not be evaluated", err)
		return
	}
	if checks == nil {
		checks = []eligibility.Check{}
	}

	writeJSON(w, http.StatusOK, EvaluationDTO{
		Kind:       string(result.Kind),
		ReasonCode: string(result.Reason.Code),
		Reason:     result.Reason.Text,
		Checks:     checks,
	})
}

// CycleDates returns the dates governing a cycle.
// GET /api/cycles/{grade}/{year}/dates
func (h *Handler) CycleDates(w http.ResponseWriter, r *http.Request) {
	rs, cycle, ok := h.cycleParams(w, r)
	if !ok {
		return
	}

	dto, err := NewCycleDatesDTO(rs, cycle)
	if err != nil {
		writeError(w, errorStatus(err), "Failed to compute cycle dates", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// SAMPLE HANDLERS
// =============================================================================

// ListSamples returns the built-in sample rosters.
// GET /api/samples
func (h *Handler) ListSamples(w http.ResponseWriter, r *http.Request) {
	dtos := make([]SampleDTO, 0, len(samples))
	for _, s := range samples {
		dtos = append(dtos, SampleDTO{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Cycle:       string(s.Cycle.Grade),
			Year:        s.Cycle.Year,
			Members:     len(s.Members()),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ClassifySample classifies a built-in roster for its own cycle.
// POST /api/samples/{id}/classify
func (h *Handler) ClassifySample(w http.ResponseWriter, r *http.Request) {
	sample, ok := findSample(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Sample not found", nil)
		return
	}
	rs, err := h.ruleset(r)
	if err != nil {
		writeError(w, errorStatus(err), "Ruleset not found", err)
		return
	}
	h.classify(w, r, rs, sample.Cycle, sample.Members())
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) classify(w http.ResponseWriter, r *http.Request, rs *policy.Ruleset, cycle eligibility.Cycle, members []roster.Member) {
	logger := h.Logger.With("request_id", middleware.GetReqID(r.Context()))
	classifier := batch.NewClassifier(rs, batch.WithQuota(h.Quota), batch.WithLogger(logger))

	report, err := classifier.Classify(r.Context(), members, cycle)
	if err != nil {
		writeError(w, errorStatus(err), "Classification failed", err)
		return
	}
	writeJSON(w, http.StatusOK, NewReportDTO(report))
}

// cycleParams resolves the ruleset and cycle of a /cycles/{grade}/{year} route.
func (h *Handler) cycleParams(w http.ResponseWriter, r *http.Request) (*policy.Ruleset, eligibility.Cycle, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 9999 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return nil, eligibility.Cycle{}, false
	}
	cycle := eligibility.Cycle{Grade: policy.ParseGrade(chi.URLParam(r, "grade")), Year: year}

	rs, err := h.ruleset(r)
	if err != nil {
		writeError(w, errorStatus(err), "Ruleset not found", err)
		return nil, eligibility.Cycle{}, false
	}
	if _, err := rs.Cycle(cycle.Grade); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cycle", err)
		return nil, eligibility.Cycle{}, false
	}
	return rs, cycle, true
}

func (h *Handler) ruleset(r *http.Request) (*policy.Ruleset, error) {
	version := r.URL.Query().Get("ruleset")
	if version == "" {
		version = h.DefaultRuleset
	}
	return h.Registry.Lookup(version)
}

func readRoster(w http.ResponseWriter, r *http.Request) ([]roster.Member, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" {
		return roster.ReadCSV(body)
	}

	var req ClassifyRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return req.Members, nil
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, policy.ErrRulesetNotFound):
		return http.StatusNotFound
	case errors.Is(err, policy.ErrDuplicateRuleset):
		return http.StatusConflict
	case errors.Is(err, policy.ErrInvalidRuleset),
		errors.Is(err, batch.ErrInvalidCycle),
		errors.Is(err, policy.ErrUnknownGrade),
		errors.Is(err, roster.ErrMissingColumn),
		eligibility.IsDataError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func bodyErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if status := errorStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
