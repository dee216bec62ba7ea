package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/temcen/closetmood/pkg/models"
)

// ScoreSummary describes the spread of outfit scores in one response.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
}

// SummarizeScores computes mean, sample standard deviation and max over the outfits' scores.
func SummarizeScores(outfits []models.Outfit) ScoreSummary {
	if len(outfits) == 0 {
		return ScoreSummary{}
	}

	scores := make([]float64, len(outfits))
	for i, o := range outfits {
		scores[i] = float64(o.Score)
	}

	summary := ScoreSummary{
		Count: len(scores),
		Max:   floats.Max(scores),
	}
	summary.Mean, summary.StdDev = stat.MeanStdDev(scores, nil)
	if len(scores) == 1 {
		summary.StdDev = 0
	}
	return summary
}

// MetricsCollector exposes recommendation and feedback metrics to Prometheus.
type MetricsCollector struct {
	recommendationRequests *prometheus.CounterVec
	recommendationLatency  prometheus.Histogram
	candidatesGenerated    prometheus.Histogram
	emptyResults           *prometheus.CounterVec
	topScore               prometheus.Gauge
	feedbackEvents         *prometheus.CounterVec
	pairingUpdates         *prometheus.CounterVec
}

// NewMetricsCollector registers the collectors with reg. Production passes
// prometheus.DefaultRegisterer; tests pass a fresh registry.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)

	return &MetricsCollector{
		recommendationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outfit_recommendation_requests_total",
			Help: "Total number of outfit recommendation requests",
		}, []string{"status"}),

		recommendationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "outfit_recommendation_latency_seconds",
			Help:    "Outfit recommendation latency in seconds, wardrobe load included",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
		}),

		candidatesGenerated: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "outfit_candidates_generated",
			Help:    "Number of candidate outfits generated before ranking",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),

		emptyResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outfit_recommendation_empty_total",
			Help: "Recommendation responses without outfits, by reason",
		}, []string{"reason"}),

		topScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "outfit_recommendation_top_score",
			Help: "Score of the best outfit in the most recent non-empty response",
		}),

		feedbackEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outfit_feedback_events_total",
			Help: "Feedback actions recorded, by action",
		}, []string{"action"}),

		pairingUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "garment_pairing_updates_total",
			Help: "Pairing graph updates applied by the feedback worker",
		}, []string{"status"}),
	}
}

// RecordRecommendation records one finished request. emptyReason is "" for non-empty results.
func (mc *MetricsCollector) RecordRecommendation(latency time.Duration, candidates int, emptyReason string, summary ScoreSummary) {
	mc.recommendationRequests.WithLabelValues("ok").Inc()
	mc.recommendationLatency.Observe(latency.Seconds())
	mc.candidatesGenerated.Observe(float64(candidates))

	if emptyReason != "" {
		mc.emptyResults.WithLabelValues(emptyReason).Inc()
		return
	}
	mc.topScore.Set(summary.Max)
}

func (mc *MetricsCollector) RecordRecommendationError() {
	mc.recommendationRequests.WithLabelValues("error").Inc()
}

func (mc *MetricsCollector) RecordFeedback(action models.FeedbackAction) {
	mc.feedbackEvents.WithLabelValues(string(action)).Inc()
}

func (mc *MetricsCollector) RecordPairingUpdate(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	mc.pairingUpdates.WithLabelValues(status).Inc()
}
