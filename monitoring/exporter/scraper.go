package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Histogram is the expvar representation of a histogram variable.
type Histogram struct {
	Count          int64     `json:"count"`
	Sum            float64   `json:"sum"`
	CountPerBucket []int64   `json:"count_per_bucket"`
	Bounds         []float64 `json:"bounds"`
}

// RelayStats is the subset of the relay's expvar output the exporter
// re-exposes.
type RelayStats struct {
	Version                      int64      `json:"Version"`
	Uptime                       float64    `json:"Uptime"`
	NumGoroutines                int64      `json:"NumGoroutines"`
	LiveSessions                 int64      `json:"LiveSessions"`
	TotalSessions                int64      `json:"TotalSessions"`
	VerifiedSessions             int64      `json:"VerifiedSessions"`
	FailedVerifications          int64      `json:"FailedVerifications"`
	DroppedUnauthenticated       int64      `json:"DroppedUnauthenticated"`
	LiveSubscriptions            int64      `json:"LiveSubscriptions"`
	IncomingMessagesWebsockTotal int64      `json:"IncomingMessagesWebsockTotal"`
	OutgoingMessagesWebsockTotal int64      `json:"OutgoingMessagesWebsockTotal"`
	RequestDuration              *Histogram `json:"RequestDuration"`
}

// Scraper collects metrics from the relay server's expvar endpoint.
type Scraper struct {
	address string
	timeout time.Duration
}

// Scrape fetches and parses one snapshot of the relay's stats.
func (s *Scraper) Scrape() (*RelayStats, error) {
	client := http.Client{Timeout: s.timeout}
	resp, err := client.Get(s.address)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("scrape failed: " + resp.Status)
	}

	var stats RelayStats
	if err = json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
