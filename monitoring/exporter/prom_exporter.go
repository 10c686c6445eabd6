package main

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

// PromExporter collects metrics from the relay and exports them in
// Prometheus format.
type PromExporter struct {
	scraper *Scraper

	up                     *prometheus.Desc
	version                *prometheus.Desc
	uptime                 *prometheus.Desc
	goroutines             *prometheus.Desc
	liveSessions           *prometheus.Desc
	totalSessions          *prometheus.Desc
	verifiedSessions       *prometheus.Desc
	failedVerifications    *prometheus.Desc
	droppedUnauthenticated *prometheus.Desc
	liveSubscriptions      *prometheus.Desc
	messagesIn             *prometheus.Desc
	messagesOut            *prometheus.Desc
	requestDuration        *prometheus.Desc
}

// NewPromExporter returns an initialized exporter.
func NewPromExporter(namespace string, scraper *Scraper) *PromExporter {
	return &PromExporter{
		scraper: scraper,
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "up"),
			"Whether the last scrape of the relay succeeded.",
			nil, nil),
		version: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "version"),
			"Relay server version.",
			nil, nil),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Time since the relay server started.",
			nil, nil),
		goroutines: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "goroutines"),
			"Number of goroutines in the relay server.",
			nil, nil),
		liveSessions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "live_sessions"),
			"Number of connected sessions.",
			nil, nil),
		totalSessions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "total_sessions"),
			"Total number of sessions since server start.",
			nil, nil),
		verifiedSessions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "verified_sessions"),
			"Number of authenticated sessions.",
			nil, nil),
		failedVerifications: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "failed_verifications_total"),
			"Total number of rejected identity tokens.",
			nil, nil),
		droppedUnauthenticated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "dropped_unauthenticated_total"),
			"Total number of requests dropped by the authentication gate.",
			nil, nil),
		liveSubscriptions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "live_subscriptions"),
			"Number of active live subscriptions.",
			nil, nil),
		messagesIn: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "incoming_messages_total"),
			"Total number of messages received from clients.",
			nil, nil),
		messagesOut: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "outgoing_messages_total"),
			"Total number of messages sent to clients.",
			nil, nil),
		requestDuration: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "request_duration_milliseconds"),
			"Request processing duration.",
			nil, nil),
	}
}

// Describe describes all the metrics exported by the exporter.
// It implements prometheus.Collector.
func (e *PromExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.up
	ch <- e.version
	ch <- e.uptime
	ch <- e.goroutines
	ch <- e.liveSessions
	ch <- e.totalSessions
	ch <- e.verifiedSessions
	ch <- e.failedVerifications
	ch <- e.droppedUnauthenticated
	ch <- e.liveSubscriptions
	ch <- e.messagesIn
	ch <- e.messagesOut
	ch <- e.requestDuration
}

// Collect fetches relay stats and delivers them as Prometheus metrics.
// It implements prometheus.Collector.
func (e *PromExporter) Collect(ch chan<- prometheus.Metric) {
	stats, err := e.scraper.Scrape()
	if err != nil {
		ch <- prometheus.MustNewConstMetric(e.up, prometheus.GaugeValue, 0)
		log.Println("Scrape failed:", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(e.up, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(e.version, prometheus.GaugeValue, float64(stats.Version))
	ch <- prometheus.MustNewConstMetric(e.uptime, prometheus.CounterValue, stats.Uptime)
	ch <- prometheus.MustNewConstMetric(e.goroutines, prometheus.GaugeValue, float64(stats.NumGoroutines))
	ch <- prometheus.MustNewConstMetric(e.liveSessions, prometheus.GaugeValue, float64(stats.LiveSessions))
	ch <- prometheus.MustNewConstMetric(e.totalSessions, prometheus.CounterValue, float64(stats.TotalSessions))
	ch <- prometheus.MustNewConstMetric(e.verifiedSessions, prometheus.GaugeValue, float64(stats.VerifiedSessions))
	ch <- prometheus.MustNewConstMetric(e.failedVerifications, prometheus.CounterValue, float64(stats.FailedVerifications))
	ch <- prometheus.MustNewConstMetric(e.droppedUnauthenticated, prometheus.CounterValue, float64(stats.DroppedUnauthenticated))
	ch <- prometheus.MustNewConstMetric(e.liveSubscriptions, prometheus.GaugeValue, float64(stats.LiveSubscriptions))
	ch <- prometheus.MustNewConstMetric(e.messagesIn, prometheus.CounterValue, float64(stats.IncomingMessagesWebsockTotal))
	ch <- prometheus.MustNewConstMetric(e.messagesOut, prometheus.CounterValue, float64(stats.OutgoingMessagesWebsockTotal))

	if h := stats.RequestDuration; h != nil {
		buckets := make(map[float64]uint64, len(h.Bounds))
		var cumulative uint64
		for i, bound := range h.Bounds {
			cumulative += uint64(h.CountPerBucket[i])
			buckets[bound] = cumulative
		}
		ch <- prometheus.MustNewConstHistogram(e.requestDuration,
			uint64(h.Count), h.Sum, buckets)
	}
}
