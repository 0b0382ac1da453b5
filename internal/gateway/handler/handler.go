// Package handler exposes the planning service as JSON over HTTP.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"urbanplanner/internal/gateway/middleware"
	"urbanplanner/internal/planner"
	"urbanplanner/internal/planning"
)

const maxBodyBytes = 1 << 20

// Planner is the subset of *planner.Service the handlers call.
type Planner interface {
	GeneratePlan(ctx context.Context, req planning.PlanningRequest) (*planner.PlanReport, error)
	AnalyzeLayout(ctx context.Context, req planning.PlanningRequest) (*planner.LayoutReport, error)
}

// Handler serves the planning endpoints. RequestTimeout bounds every model
// call on top of the model client's retry policy.
type Handler struct {
	planner        Planner
	requestTimeout time.Duration
	log            *zap.Logger
	now            func() time.Time
}

func New(p Planner, requestTimeout time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestTimeout <= 0 {
		requestTimeout = 2 * time.Minute
	}
	return &Handler{planner: p, requestTimeout: requestTimeout, log: logger, now: time.Now}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /generate_plan", h.GeneratePlan)
	mux.HandleFunc("POST /generate_layout", h.GenerateLayout)
	mux.HandleFunc("POST /calc/population_growth", h.PopulationGrowth)
	mux.HandleFunc("POST /calc/infrastructure_cost", h.InfrastructureCost)
	mux.HandleFunc("POST /calc/land_use_mix", h.LandUseMix)
	mux.HandleFunc("POST /city_model", h.CityModel)
	mux.HandleFunc("GET /healthz", h.Healthz)
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

// writeJSON encodes v before committing status, so a value that cannot be
// encoded (NaN, Inf) becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = enc.Encode(errorBody{Error: planner.Internal.Message()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// statusFor maps a planner outcome to the HTTP status returned to callers.
func statusFor(o planner.Outcome) int {
	switch o {
	case planner.BadRequest:
		return http.StatusBadRequest
	case planner.ServiceUnavailable:
		return http.StatusServiceUnavailable
	case planner.OutputNotUnderstood:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err with a status chosen by its outcome. Validation
// details are echoed; other causes are logged only.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	outcome := planner.Classify(err)
	body := errorBody{Error: outcome.Message()}
	if outcome == planner.BadRequest {
		body.Detail = err.Error()
	}
	h.log.Warn("request failed",
		zap.String("request_id", middleware.RequestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Stringer("outcome", outcome),
		zap.Error(err),
	)
	writeJSON(w, statusFor(outcome), body)
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: planner.BadRequest.Message(), Detail: err.Error()})
}

var errMissingField = errors.New("missing required field")
