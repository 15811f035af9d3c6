package models

import "time"

// SystemMetrics is a point-in-time summary of request and store activity.
type SystemMetrics struct {
	RequestsTotal               uint64    `json:"requests_total"`
	AverageRequestDurationMs    float64   `json:"average_request_duration_ms"`
	StoreOperationCount         uint64    `json:"store_operation_count"`
	StoreOperationErrors        uint64    `json:"store_operation_errors"`
	AverageStoreOperationTimeMs float64   `json:"average_store_operation_time_ms"`
	Goroutines                  int       `json:"goroutines"`
	GeneratedAt                 time.Time `json:"generated_at"`
}
