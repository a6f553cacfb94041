package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpilot_posts_generated_total",
		Help: "The total number of generated posts",
	}, []string{"prompt_type"})

	PostsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpilot_posts_published_total",
		Help: "The total number of posts published to WordPress",
	}, []string{"status"})

	DuplicatesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpilot_duplicates_detected_total",
		Help: "The total number of candidate topics rejected as duplicates",
	}, []string{"reason"})

	TopicAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blogpilot_topic_attempts",
		Help:    "Suggestion attempts needed to find a unique topic",
		Buckets: []float64{1, 2, 3, 4, 5},
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogpilot_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpilot_embedding_requests_total",
		Help: "The total number of embedding requests",
	}, []string{"provider", "status"})

	EmbeddingStoreSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blogpilot_embedding_store_entries",
		Help: "Number of topic embeddings currently persisted",
	})

	SyncedPosts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpilot_synced_posts_total",
		Help: "Posts pulled from WordPress by the sync worker",
	}, []string{"status"})

	BackupsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpilot_backups_created_total",
		Help: "User data backups created",
	}, []string{"encrypted"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogpilot_http_request_duration_seconds",
		Help:    "Duration of API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
