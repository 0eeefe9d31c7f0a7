package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_roulette_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "food_roulette_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LikeToggles counts like state changes by kind (meal, restaurant, message)
	// and outcome (created, reactivated, unchanged, duplicate, deactivated, deleted).
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_roulette_like_toggles_total",
		Help: "Total number of like toggles by kind and outcome",
	}, []string{"kind", "outcome"})

	// UpstreamRequests counts calls to the recipe and business-search APIs.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_roulette_upstream_requests_total",
		Help: "Total number of upstream API requests by service and result",
	}, []string{"service", "result"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "food_roulette_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

const startedKey = "observability:started"

// RegisterDBCallbacks times every gorm create, query, update and delete.
func RegisterDBCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("observability:before_create", start); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("observability:after_create", finish("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("observability:before_query", start); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("observability:after_query", finish("query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("observability:before_update", start); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("observability:after_update", finish("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("observability:before_delete", start); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("observability:after_delete", finish("delete"))
}

func start(db *gorm.DB) {
	db.InstanceSet(startedKey, time.Now())
}

func finish(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startedKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		DatabaseQueryLatency.WithLabelValues(operation, db.Statement.Table).Observe(time.Since(started).Seconds())
	}
}
