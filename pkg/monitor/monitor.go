// Package monitor runs the sensor polling loop and owns the dashboard view
// state: the has-data flag, the latest reading and prediction, and the chart
// history.
//
// The loop fetches once immediately and then once per interval until its
// context is cancelled. Only one fetch is outstanding at a time; a tick that
// finds a fetch in flight is skipped with ErrPollInFlight. Failures are
// absorbed: they are logged, counted, and turn the has-data flag off (or leave
// it alone, depending on Policy). There is no retry or backoff; the next
// scheduled tick is the retry.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/history"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/sensor"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/storage"
)

// DefaultInterval is the polling period.
const DefaultInterval = 5 * time.Second

var (
	// ErrPollInFlight is returned by Tick when another fetch is outstanding.
	ErrPollInFlight = errors.New("poll already in flight")
	// ErrNotReady is reported by Ready while no reading is available.
	ErrNotReady = errors.New("no sensor data")
)

// Policy decides what a failed poll does to the has-data flag.
type Policy string

const (
	// PolicyReset clears has-data on failure. The last reading and history
	// stay available for inspection.
	PolicyReset Policy = "reset"
	// PolicyKeep leaves has-data unchanged on failure.
	PolicyKeep Policy = "keep"
)

// Recorder receives poll instrumentation. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordPoll(seconds float64, result string)
	RecordSkipped()
	SetHasData(ok bool)
	SetHeartRate(bpm float64)
	SetHistoryPoints(n int)
	RecordError(component, reason string)
}

// State is a point-in-time copy of the view state.
type State struct {
	HasData    bool                 `json:"hasData"`
	Reading    *sensor.Reading      `json:"reading"`
	Prediction *sensor.Prediction   `json:"prediction"`
	History    []history.ChartPoint `json:"history"`
	UpdatedAt  time.Time            `json:"updatedAt,omitzero"`
	LastError  string               `json:"lastError,omitempty"`
}

// Options configures a Monitor. Zero values get defaults.
type Options struct {
	Interval time.Duration
	// HistoryCapacity bounds the chart history.
	HistoryCapacity int
	Policy          Policy
	// Store receives the condition label of every prediction. Nil disables
	// persistence.
	Store    storage.Store
	Clock    Clock
	Recorder Recorder
	Logger   *slog.Logger
}

// Monitor polls a sensor.Source.
type Monitor struct {
	source   sensor.Source
	interval time.Duration
	policy   Policy
	store    storage.Store
	clock    Clock
	rec      Recorder
	logger   *slog.Logger
	history  *history.Buffer

	inFlight atomic.Bool

	mu         sync.RWMutex
	hasData    bool
	reading    *sensor.Reading
	prediction *sensor.Prediction
	updatedAt  time.Time
	lastError  string

	obsMu     sync.Mutex
	observers []func(hasData bool)
}

// New creates a Monitor for source.
func New(source sensor.Source, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Policy == "" {
		opts.Policy = PolicyReset
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Monitor{
		source:   source,
		interval: opts.Interval,
		policy:   opts.Policy,
		store:    opts.Store,
		clock:    opts.Clock,
		rec:      opts.Recorder,
		logger:   opts.Logger,
		history:  history.New(opts.HistoryCapacity),
	}
}

// OnHasDataChange registers fn to be called whenever the has-data flag flips.
// fn runs on the polling goroutine and must not block.
func (m *Monitor) OnHasDataChange(fn func(hasData bool)) {
	m.obsMu.Lock()
	m.observers = append(m.observers, fn)
	m.obsMu.Unlock()
}

// Run polls immediately and then on every interval. It blocks until ctx is
// cancelled; cancellation stops the ticker and aborts an outstanding fetch.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("starting poll loop", "source", m.source.Name(), "interval", m.interval)

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	m.runTick(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("poll loop stopped")
			return ctx.Err()
		case <-ticker.C():
			// A buffered tick can race with cancellation.
			if ctx.Err() != nil {
				m.logger.Info("poll loop stopped")
				return ctx.Err()
			}
			m.runTick(ctx)
		}
	}
}

func (m *Monitor) runTick(ctx context.Context) {
	err := m.Tick(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrPollInFlight):
		m.logger.Debug("poll skipped, previous still in flight")
	case ctx.Err() != nil:
	default:
		m.logger.Warn("poll failed", "error", err)
	}
}

// Tick performs one poll cycle. Exported for the refresh endpoint and tests.
func (m *Monitor) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.inFlight.CompareAndSwap(false, true) {
		m.rec.RecordSkipped()
		return ErrPollInFlight
	}
	defer m.inFlight.Store(false)

	start := m.clock.Now()
	latest, err := m.source.Latest(ctx)
	elapsed := m.clock.Now().Sub(start)

	// Teardown: leave the state as it was.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		m.rec.RecordPoll(elapsed.Seconds(), "error")
		m.rec.RecordError("sensor", failureReason(err))
		m.fail(err)
		return fmt.Errorf("fetch latest reading: %w", err)
	}

	m.rec.RecordPoll(elapsed.Seconds(), "ok")
	m.succeed(ctx, latest)

	m.logger.Debug("poll complete",
		"heart_rate", latest.Reading.HeartRateBPM,
		"history", m.history.Len(),
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}

func (m *Monitor) succeed(ctx context.Context, latest *sensor.Latest) {
	now := m.clock.Now()
	reading := latest.Reading

	m.history.Append(history.ChartPoint{
		Time:      now.Format(time.TimeOnly),
		HeartRate: reading.HeartRateBPM,
		GyroX:     reading.Gyro.X,
		GyroY:     reading.Gyro.Y,
		GyroZ:     reading.Gyro.Z,
	})

	m.mu.Lock()
	changed := !m.hasData
	m.hasData = true
	m.reading = &reading
	m.prediction = latest.Prediction
	m.updatedAt = now
	m.lastError = ""
	m.mu.Unlock()

	m.rec.SetHasData(true)
	m.rec.SetHeartRate(reading.HeartRateBPM)
	m.rec.SetHistoryPoints(m.history.Len())

	if p := latest.Prediction; p != nil && p.Condition != "" && m.store != nil {
		if err := m.store.Set(ctx, storage.KeyCondition, p.Condition); err != nil {
			m.rec.RecordError("storage", "persist_condition_failed")
			m.logger.Error("failed to persist condition", "condition", p.Condition, "error", err)
		}
	}

	if changed {
		m.notify(true)
	}
}

func (m *Monitor) fail(err error) {
	m.mu.Lock()
	m.lastError = err.Error()
	changed := false
	if m.policy == PolicyReset && m.hasData {
		m.hasData = false
		changed = true
	}
	hasData := m.hasData
	m.mu.Unlock()

	m.rec.SetHasData(hasData)
	if changed {
		m.notify(false)
	}
}

func (m *Monitor) notify(hasData bool) {
	m.obsMu.Lock()
	observers := append([]func(bool){}, m.observers...)
	m.obsMu.Unlock()

	for _, fn := range observers {
		fn(hasData)
	}
}

// State returns a copy of the current view state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := State{
		HasData:   m.hasData,
		History:   m.history.Points(),
		UpdatedAt: m.updatedAt,
		LastError: m.lastError,
	}
	if m.reading != nil {
		r := *m.reading
		s.Reading = &r
	}
	if m.prediction != nil {
		p := *m.prediction
		s.Prediction = &p
	}
	return s
}

// HasData reports whether the last poll produced a reading (subject to Policy).
func (m *Monitor) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasData
}

// LastReading returns the latest reading while data is available.
func (m *Monitor) LastReading() (sensor.Reading, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasData || m.reading == nil {
		return sensor.Reading{}, false
	}
	return *m.reading, true
}

// Ready returns ErrNotReady until a poll has succeeded.
func (m *Monitor) Ready() error {
	if !m.HasData() {
		return ErrNotReady
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, sensor.ErrNoData):
		return "no_data"
	case errors.Is(err, sensor.ErrMalformed):
		return "malformed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "fetch_failed"
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordPoll(float64, string) {}
func (nopRecorder) RecordSkipped()             {}
func (nopRecorder) SetHasData(bool)            {}
func (nopRecorder) SetHeartRate(float64)       {}
func (nopRecorder) SetHistoryPoints(int)       {}
func (nopRecorder) RecordError(string, string) {}
