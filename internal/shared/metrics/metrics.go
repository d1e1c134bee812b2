package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_generation_started_total",
		Help: "Total generation workflows started.",
	})
	GenerationCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_generation_completed_total",
		Help: "Total generation workflows completed.",
	})
	GenerationFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_generation_failed_total",
		Help: "Total generation workflows failed.",
	})
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "docgen_generation_duration_seconds",
		Help:    "Generation workflow duration in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	ReviewsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_reviews_started_total",
		Help: "Total review requests started.",
	})
	ReviewsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_reviews_failed_total",
		Help: "Total review requests failed.",
	})
	ReviewDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "docgen_review_duration_seconds",
		Help:    "Review request duration in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	DocumentsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_documents_ingested_total",
		Help: "Total documents ingested.",
	})
	ChunksIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_chunks_indexed_total",
		Help: "Total chunks pushed to the retrieval index.",
	})
	ExportsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docgen_exports_served_total",
		Help: "Total document exports served, by format.",
	}, []string{"format"})

	IndexJobsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_index_jobs_received_total",
		Help: "Total index jobs received from the queue.",
	})
	IndexJobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_index_jobs_completed_total",
		Help: "Total index jobs completed.",
	})
	IndexJobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_index_jobs_failed_total",
		Help: "Total index jobs that failed processing.",
	})
	IndexJobsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docgen_index_jobs_discarded_total",
		Help: "Total unrecoverable index messages deleted without processing.",
	})
)

// Handler exposes the Prometheus metrics endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
