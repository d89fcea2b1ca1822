// Package metrics records assessment evaluations as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
)

const namespace = "cloudassess"

type Recorder struct {
	assessments      *prometheus.CounterVec
	malformed        prometheus.Counter
	categoryPct      *prometheus.HistogramVec
	evaluateDuration prometheus.Histogram
	catalogQuestions *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Assessments evaluated, by overall status.",
		}, []string{"status"}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_answers_total",
			Help:      "Answers rejected because their shape did not match the question.",
		}),
		categoryPct: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "category_percentage",
			Help:      "Category percentages of evaluated assessments.",
			Buckets:   []float64{20, 40, 60, 80, 100},
		}, []string{"category"}),
		evaluateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluate_duration_seconds",
			Help:      "Time spent decoding and evaluating a submission.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		catalogQuestions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_questions",
			Help:      "Questions in the loaded catalog.",
		}, []string{"version"}),
	}
	reg.MustRegister(r.assessments, r.malformed, r.categoryPct, r.evaluateDuration, r.catalogQuestions)
	return r
}

// ObserveAssessment records one evaluation.
func (r *Recorder) ObserveAssessment(a scoring.Assessment, elapsed time.Duration) {
	r.assessments.WithLabelValues(string(a.OverallStatus)).Inc()
	for _, c := range a.Categories {
		r.categoryPct.WithLabelValues(c.Category).Observe(c.Percentage)
	}
	r.evaluateDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveMalformed(n int) {
	if n > 0 {
		r.malformed.Add(float64(n))
	}
}

func (r *Recorder) SetCatalog(c *questionnaire.Catalog) {
	r.catalogQuestions.Reset()
	r.catalogQuestions.WithLabelValues(c.Version()).Set(float64(c.Len()))
}
