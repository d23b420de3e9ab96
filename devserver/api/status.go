// CLASSIFICATION: COMMUNITY
// Filename: status.go v0.2
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// ServerInfo describes the running server.
type ServerInfo interface {
	Root() string
	URL() string
}

// ChangeFeed reports file-system changes under the served root.
type ChangeFeed interface {
	Version() (uint64, string)
	Subscribe() (<-chan uint64, func())
}

// MetricsSource supplies request counters.
type MetricsSource interface {
	Metrics() MetricsResponse
}

// StatusResponse describes dev server state.
type StatusResponse struct {
	Status     string `json:"status"`
	Root       string `json:"root"`
	URL        string `json:"url"`
	Uptime     string `json:"uptime"`
	Watching   bool   `json:"watching"`
	Version    uint64 `json:"version"`
	LastChange string `json:"last_change,omitempty"`
}

// MetricsResponse carries request and rate limit counters.
type MetricsResponse struct {
	RequestsTotal      uint64  `json:"requests_total"`
	StartTimeSeconds   int64   `json:"start_time_seconds"`
	RateLimitPerSecond float64 `json:"rate_limit_per_second"`
	RateBurst          int     `json:"rate_burst"`
	RateAllowedTotal   uint64  `json:"rate_allowed_total"`
	RateDeniedTotal    uint64  `json:"rate_denied_total"`
}

// Status writes the server status. feed may be nil when watching is off.
func Status(start time.Time, info ServerInfo, feed ChangeFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Status: "ok",
			Root:   info.Root(),
			URL:    info.URL(),
			Uptime: time.Since(start).Round(time.Second).String(),
		}
		if feed != nil {
			resp.Watching = true
			resp.Version, resp.LastChange = feed.Version()
		}
		writeJSON(w, resp)
	}
}

// Metrics writes the current counters.
func Metrics(src MetricsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, src.Metrics())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(v)
}
