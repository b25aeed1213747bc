package models

import "time"

// UsageRecord is one append-only accounting entry per dispatched request.
type UsageRecord struct {
	ID             int64     `json:"id" db:"id"`
	AppID          string    `json:"app_id" db:"app_id"`
	UserID         *int64    `json:"user_id,omitempty" db:"user_id"`
	Endpoint       string    `json:"endpoint" db:"endpoint"`
	StatusCode     int       `json:"status_code" db:"status_code"`
	ResponseTimeMs int64     `json:"response_time_ms" db:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// AppUsageStat is an aggregate over api_usage for one app.
type AppUsageStat struct {
	AppID          string  `json:"app_id" db:"app_id"`
	Calls          int64   `json:"calls" db:"calls"`
	AvgResponseMs  float64 `json:"avg_response_ms" db:"avg_response_ms"`
	ErrorCount     int64   `json:"error_count" db:"error_count"`
	LastCalledUnix int64   `json:"last_called_unix" db:"last_called_unix"`
}

// DailyUsage is one point of the dashboard's last-7-days series.
type DailyUsage struct {
	Day   string `json:"day" db:"day"`
	Calls int64  `json:"calls" db:"calls"`
}
