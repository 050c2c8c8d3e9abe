// Package metrics provides Prometheus instrumentation for the dashboard.
//
// Metrics exposed:
//   - sleepanalysis_poll_seconds: Histogram of sensor poll duration
//   - sleepanalysis_polls_total: Counter of polls by result (ok, error, skipped)
//   - sleepanalysis_has_data: Gauge, 1 while the last poll succeeded
//   - sleepanalysis_heart_rate_bpm: Gauge of the latest heart rate
//   - sleepanalysis_history_points: Gauge of points in the chart history
//   - sleepanalysis_quiz_results_total: Counter of quiz results by dosha
//   - sleepanalysis_recommendations_total: Counter by kind and result
//   - sleepanalysis_errors_total: Counter of errors by component and reason
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	PollSeconds          prometheus.Histogram
	PollsTotal           *prometheus.CounterVec
	HasData              prometheus.Gauge
	HeartRate            prometheus.Gauge
	HistoryPoints        prometheus.Gauge
	QuizResultsTotal     *prometheus.CounterVec
	RecommendationsTotal *prometheus.CounterVec
	ErrorsTotal          *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		PollSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sleepanalysis_poll_seconds",
			Help:    "Time spent fetching the latest sensor reading",
			Buckets: prometheus.DefBuckets,
		}),

		PollsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sleepanalysis_polls_total",
			Help: "Total number of sensor polls by result",
		}, []string{"result"}),

		HasData: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sleepanalysis_has_data",
			Help: "1 when the last poll produced a reading, 0 otherwise",
		}),

		HeartRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sleepanalysis_heart_rate_bpm",
			Help: "Latest heart rate in beats per minute",
		}),

		HistoryPoints: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sleepanalysis_history_points",
			Help: "Number of points held in the chart history",
		}),

		QuizResultsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sleepanalysis_quiz_results_total",
			Help: "Total number of completed quizzes by resulting dosha",
		}, []string{"dosha"}),

		RecommendationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sleepanalysis_recommendations_total",
			Help: "Total number of recommendation requests by kind and result",
		}, []string{"kind", "result"}),

		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sleepanalysis_errors_total",
			Help: "Total number of errors by component and reason",
		}, []string{"component", "reason"}),
	}
}

// RecordPoll records one poll's duration and result.
func (m *Metrics) RecordPoll(seconds float64, result string) {
	m.PollSeconds.Observe(seconds)
	m.PollsTotal.WithLabelValues(result).Inc()
}

// RecordSkipped counts a poll skipped because another was in flight.
func (m *Metrics) RecordSkipped() {
	m.PollsTotal.WithLabelValues("skipped").Inc()
}

// SetHasData sets the has-data gauge.
func (m *Metrics) SetHasData(ok bool) {
	if ok {
		m.HasData.Set(1)
		return
	}
	m.HasData.Set(0)
}

// SetHeartRate sets the latest heart rate.
func (m *Metrics) SetHeartRate(bpm float64) {
	m.HeartRate.Set(bpm)
}

// SetHistoryPoints sets the history length.
func (m *Metrics) SetHistoryPoints(n int) {
	m.HistoryPoints.Set(float64(n))
}

// RecordQuiz counts a completed quiz.
func (m *Metrics) RecordQuiz(dosha string) {
	m.QuizResultsTotal.WithLabelValues(dosha).Inc()
}

// RecordRecommendation counts a recommendation request.
func (m *Metrics) RecordRecommendation(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.RecommendationsTotal.WithLabelValues(kind, result).Inc()
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(component, reason string) {
	m.ErrorsTotal.WithLabelValues(component, reason).Inc()
}
