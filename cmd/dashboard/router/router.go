// Package router configures the dashboard's HTTP API.
//
// Routes configured:
//   - GET /healthz - liveness (always 200 OK)
//   - GET /readyz - 200 once a poll has succeeded and the store answers, 503 otherwise
//   - GET /metrics - Prometheus metrics
//   - GET /api/dashboard - current view state and chart history
//   - POST /api/dashboard/refresh - run one poll now (409 while one is in flight)
//   - GET /api/dashboard/chart - HTML charts of the history
//   - GET, POST /api/quiz - questions / submit answers
//   - GET, DELETE /api/profile - persisted dosha and condition
//   - GET, POST /api/recommendation - last outcome / request a new one
//   - GET /api/yoga, /api/yoga/{id} - pose catalog
//
// Failures are returned as {"error": "<msg>"}.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MarutiHaval05/Sleep-Analysis1/cmd/dashboard/metrics"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/charts"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/dosha"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/httpx"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/monitor"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/recommend"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/storage"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/yoga"
)

const storeTimeout = 2 * time.Second

// Dashboard is the polling state the API exposes.
type Dashboard interface {
	State() monitor.State
	Tick(ctx context.Context) error
	Ready() error
}

// Deps are the components behind the API. Metrics and Gatherer may be nil.
type Deps struct {
	Dashboard  Dashboard
	Classifier *dosha.Classifier
	Store      storage.Store
	Advisor    *recommend.Advisor
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	// CORSOrigins enables CORS for the listed origins. Empty disables it.
	CORSOrigins []string
	Logger      *slog.Logger
}

// SetupRoutes builds the HTTP handler, wrapped in request-id, logging and
// recovery middleware.
func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	h := &apiHandlers{deps: d, logger: d.Logger}

	r := mux.NewRouter()

	r.Handle("/healthz", httpx.HealthHandler()).Methods(http.MethodGet)
	r.Handle("/readyz", httpx.HealthHandlerWithCheck(h.ready)).Methods(http.MethodGet)

	metricsHandler := promhttp.Handler()
	if d.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})
	}
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", h.getDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/refresh", h.refresh).Methods(http.MethodPost)
	api.HandleFunc("/dashboard/chart", h.chart).Methods(http.MethodGet)
	api.HandleFunc("/quiz", h.getQuiz).Methods(http.MethodGet)
	api.HandleFunc("/quiz", h.submitQuiz).Methods(http.MethodPost)
	api.HandleFunc("/profile", h.getProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", h.deleteProfile).Methods(http.MethodDelete)
	api.HandleFunc("/recommendation", h.getRecommendation).Methods(http.MethodGet)
	api.HandleFunc("/recommendation", h.generateRecommendation).Methods(http.MethodPost)
	api.HandleFunc("/yoga", h.listYoga).Methods(http.MethodGet)
	api.HandleFunc("/yoga/{id:[0-9]+}", h.getYoga).Methods(http.MethodGet)

	var handler http.Handler = r
	if len(d.CORSOrigins) > 0 {
		handler = httpx.CORSMiddleware(d.CORSOrigins)(handler)
	}
	handler = httpx.LoggingMiddleware(d.Logger)(handler)
	handler = httpx.RecoveryMiddleware(d.Logger)(handler)
	return httpx.RequestIDMiddleware(handler)
}

type apiHandlers struct {
	deps   Deps
	logger *slog.Logger
}

// pinger is implemented by stores backed by a remote server.
type pinger interface {
	Ping(ctx context.Context) error
}

func (h *apiHandlers) ready() error {
	if err := h.deps.Dashboard.Ready(); err != nil {
		return err
	}
	p, ok := h.deps.Store.(pinger)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		h.recordError("storage", "ping_failed")
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}

func (h *apiHandlers) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := httpx.WriteJSON(w, status, v); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

func (h *apiHandlers) recordError(component, reason string) {
	if h.deps.Metrics != nil {
		h.deps.Metrics.RecordError(component, reason)
	}
}

func (h *apiHandlers) getDashboard(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.deps.Dashboard.State())
}

func (h *apiHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	err := h.deps.Dashboard.Tick(r.Context())
	switch {
	case errors.Is(err, monitor.ErrPollInFlight):
		httpx.WriteError(w, http.StatusConflict, err)
		return
	case err != nil:
		// The failure is part of the state; the refresh itself worked.
		h.logger.Warn("manual refresh failed", "error", err)
	}
	h.writeJSON(w, http.StatusOK, h.deps.Dashboard.State())
}

func (h *apiHandlers) chart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := charts.Render(&buf, h.deps.Dashboard.State().History); err != nil {
		h.recordError("charts", "render_failed")
		h.logger.Error("failed to render chart", "error", err)
		httpx.WriteErrorMessage(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *apiHandlers) getQuiz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"questions": dosha.Questions()})
}

type quizRequest struct {
	Answers map[string]string `json:"answers"`
}

type quizResponse struct {
	Dosha   dosha.Dosha   `json:"dosha"`
	Profile dosha.Profile `json:"profile"`
	// Warning is set when the result could not be persisted.
	Warning string `json:"warning,omitempty"`
}

func (h *apiHandlers) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		httpx.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answers := make(dosha.Answers, len(req.Answers))
	for k, v := range req.Answers {
		i, err := strconv.Atoi(k)
		if err != nil || strconv.Itoa(i) != k {
			httpx.WriteErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid question index %q", k))
			return
		}
		if err := answers.Set(i, dosha.Dosha(v)); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	d, err := h.deps.Classifier.Finalize(ctx, answers)
	if errors.Is(err, dosha.ErrIncomplete) {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}

	resp := quizResponse{Dosha: d}
	resp.Profile, _ = dosha.ProfileFor(d)
	if err != nil {
		h.recordError("storage", "persist_dosha_failed")
		h.logger.Error("failed to persist dosha", "dosha", d, "error", err)
		resp.Warning = "result could not be saved"
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.RecordQuiz(d.String())
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type profileResponse struct {
	Dosha     string `json:"dosha"`
	Condition string `json:"condition"`
}

func (h *apiHandlers) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	resp := profileResponse{Dosha: recommend.Unknown}
	d, ok, err := h.deps.Classifier.Current(ctx)
	switch {
	case err != nil:
		h.recordError("storage", "get_failed")
		h.logger.Error("failed to read dosha", "error", err)
	case ok:
		resp.Dosha = d.String()
	}
	if resp.Condition, err = storage.GetOr(ctx, h.deps.Store, storage.KeyCondition, recommend.Unknown); err != nil {
		h.recordError("storage", "get_failed")
		h.logger.Error("failed to read condition", "error", err)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *apiHandlers) deleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	for _, key := range []string{storage.KeyDosha, storage.KeyCondition} {
		if _, err := h.deps.Store.Delete(ctx, key); err != nil {
			h.recordError("storage", "delete_failed")
			h.logger.Error("failed to delete key", "key", key, "error", err)
			httpx.WriteErrorMessage(w, http.StatusInternalServerError, "failed to clear profile")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *apiHandlers) getRecommendation(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.deps.Advisor.State())
}

func (h *apiHandlers) generateRecommendation(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Advisor.Generate(r.Context())
	if h.deps.Metrics != nil {
		h.deps.Metrics.RecordRecommendation(string(h.deps.Advisor.Mode()), err == nil)
	}
	if err != nil {
		h.recordError("recommend", "request_failed")
		h.writeJSON(w, http.StatusBadGateway, st)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func (h *apiHandlers) listYoga(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"poses": yoga.Poses()})
}

func (h *apiHandlers) getYoga(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteErrorMessage(w, http.StatusBadRequest, "invalid pose id")
		return
	}
	pose, ok := yoga.ByID(id)
	if !ok {
		httpx.WriteErrorMessage(w, http.StatusNotFound, fmt.Sprintf("pose %d not found", id))
		return
	}
	h.writeJSON(w, http.StatusOK, pose)
}
