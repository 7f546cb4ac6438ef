package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agro_recommendation_duration_seconds",
			Help:    "Recommendation processing duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	RecommendationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agro_recommendation_total",
			Help: "Total number of recommendation requests processed",
		},
		[]string{"status"},
	)

	RecommendationResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agro_recommendation_results_count",
			Help:    "Number of crops returned per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10},
		},
	)

	TopScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agro_recommendation_top_score",
			Help:    "Best compatibility score per recommendation request",
			Buckets: []float64{0, 10, 25, 50, 75, 90, 100},
		},
	)

	CropDetailTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agro_crop_detail_total",
			Help: "Total crop detail lookups",
		},
		[]string{"status"},
	)

	CostEstimateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agro_cost_estimate_total",
			Help: "Total cost estimate requests",
		},
		[]string{"status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agro_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agro_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	DatasetCrops = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "agro_dataset_crops_total",
			Help: "Crops in the loaded reference dataset",
		},
	)
)

func Init() {
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(RecommendationTotal)
	prometheus.MustRegister(RecommendationResults)
	prometheus.MustRegister(TopScore)
	prometheus.MustRegister(CropDetailTotal)
	prometheus.MustRegister(CostEstimateTotal)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(DatasetCrops)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
