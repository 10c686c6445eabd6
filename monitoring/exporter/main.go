// Monitoring service for the relay server. Scrapes the server's expvar
// endpoint and re-exposes the values in Prometheus format.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
)

func main() {
	relayAddr := flag.String("relay_addr", "http://localhost:6060/debug/vars",
		"Address of the relay server expvar endpoint to scrape.")
	listenAt := flag.String("listen_at", ":6222", "Address to listen on for Prometheus scrapes.")
	metricsPath := flag.String("metrics_path", "/metrics", "Path under which to expose metrics.")
	namespace := flag.String("namespace", "zeeu", "Prometheus metrics namespace.")
	timeout := flag.Int("timeout", 15, "Scrape timeout, seconds.")
	flag.Parse()

	scraper := &Scraper{
		address: *relayAddr,
		timeout: time.Duration(*timeout) * time.Second,
	}

	exporter := NewPromExporter(*namespace, scraper)
	prometheus.MustRegister(exporter)

	http.Handle(*metricsPath, promhttp.Handler())
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>ZeeU exporter</title></head><body>
<h1>ZeeU exporter</h1>
<p><a href='` + *metricsPath + `'>Metrics</a></p>
</body></html>`))
	})

	log.Println("Starting zeeu_exporter", version.Info(), version.BuildContext())
	log.Printf("Reading from %s, serving at %s%s", *relayAddr, *listenAt, *metricsPath)
	log.Fatal(http.ListenAndServe(*listenAt, nil))
}
