package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/sensor"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/storage"
)

// Mode selects which backend endpoint the Advisor targets.
type Mode string

const (
	// ModeDiet sends the persisted dosha and condition labels.
	ModeDiet Mode = "diet"
	// ModePredict sends the last sensor reading as raw proxies.
	ModePredict Mode = "predict"
)

// Unknown is shown for labels that were never persisted.
const Unknown = "Unknown"

// FailureMessage is the single user-facing message for any failed request.
const FailureMessage = "Failed to generate recommendation. Please try again."

// ErrNoReading is returned in predict mode before any reading has arrived.
var ErrNoReading = errors.New("no sensor reading available")

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDiet, ModePredict:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid recommend mode %q (must be diet or predict)", s)
}

// Requester is the subset of Client the Advisor needs.
type Requester interface {
	Diet(ctx context.Context, req DietRequest) (json.RawMessage, error)
	Predict(ctx context.Context, req PredictRequest) (json.RawMessage, error)
}

// ReadingProvider exposes the most recent sensor reading.
type ReadingProvider interface {
	LastReading() (sensor.Reading, bool)
}

// State is what a recommendation view renders.
type State struct {
	Mode        Mode            `json:"mode"`
	Dosha       string          `json:"dosha,omitempty"`
	Disorder    string          `json:"disorder,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	GeneratedAt time.Time       `json:"generatedAt,omitzero"`
}

// Advisor builds a request from persisted labels or the latest reading, calls
// the backend once and keeps the outcome.
//
// A failed request clears any previous result and sets exactly one
// user-facing message (FailureMessage). A successful one clears the message.
type Advisor struct {
	mode     Mode
	client   Requester
	store    storage.Store
	readings ReadingProvider
	subject  string
	logger   *slog.Logger

	mu    sync.RWMutex
	state State
}

// NewAdvisor creates an Advisor. readings may be nil in diet mode.
func NewAdvisor(mode Mode, client Requester, store storage.Store, readings ReadingProvider, subject string, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{
		mode:     mode,
		client:   client,
		store:    store,
		readings: readings,
		subject:  subject,
		logger:   logger,
		state:    State{Mode: mode},
	}
}

// Mode returns the configured mode.
func (a *Advisor) Mode() Mode { return a.mode }

// State returns the last outcome.
func (a *Advisor) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Generate performs one request and records the outcome. The returned error
// is for logging and metrics; the state already carries the user message.
func (a *Advisor) Generate(ctx context.Context) (State, error) {
	next := State{Mode: a.mode}

	var (
		raw json.RawMessage
		err error
	)
	switch a.mode {
	case ModePredict:
		raw, err = a.predict(ctx)
	default:
		next.Dosha, next.Disorder = a.labels(ctx)
		raw, err = a.client.Diet(ctx, DietRequest{Dosha: next.Dosha, Disorder: next.Disorder})
	}

	if err != nil {
		a.logger.Error("error generating recommendation", "mode", a.mode, "error", err)
		next.Error = FailureMessage
	} else {
		next.Result = raw
		next.GeneratedAt = time.Now().UTC()
	}

	a.mu.Lock()
	a.state = next
	a.mu.Unlock()

	return next, err
}

func (a *Advisor) predict(ctx context.Context) (json.RawMessage, error) {
	if a.readings == nil {
		return nil, ErrNoReading
	}
	r, ok := a.readings.LastReading()
	if !ok {
		return nil, ErrNoReading
	}

	// The model was trained with the gyroscope axes in the acc_* columns.
	return a.client.Predict(ctx, PredictRequest{
		BVP:     r.HeartRateBPM,
		AccX:    r.Gyro.X,
		AccY:    r.Gyro.Y,
		AccZ:    r.Gyro.Z,
		Temp:    r.TemperatureC,
		Subject: a.subject,
	})
}

// labels reads the persisted dosha and condition, falling back to Unknown.
func (a *Advisor) labels(ctx context.Context) (string, string) {
	dosha, err := storage.GetOr(ctx, a.store, storage.KeyDosha, Unknown)
	if err != nil {
		a.logger.Warn("failed to read persisted dosha", "error", err)
	}
	disorder, err := storage.GetOr(ctx, a.store, storage.KeyCondition, Unknown)
	if err != nil {
		a.logger.Warn("failed to read persisted condition", "error", err)
	}
	return dosha, disorder
}
