package main

import (
	"encoding/json"
	"expvar"
	"testing"
)

// The stats updater publishes histograms straight into expvar, so the
// type must render itself.
var _ expvar.Var = (*histogram)(nil)

func TestHistogramString(t *testing.T) {
	bounds := []float64{1, 5, 10}
	h := &histogram{CountPerBucket: make([]int64, len(bounds)+1), Bounds: bounds}
	for _, v := range []float64{0.5, 3, 7, 20, 20} {
		h.addSample(v)
	}

	// The rendered form is what the metrics exporter scrapes back.
	var got histogram
	if err := json.Unmarshal([]byte(h.String()), &got); err != nil {
		t.Fatal("histogram does not render as JSON:", err)
	}
	if got.Count != 5 || got.Sum != 50.5 {
		t.Errorf("count=%d sum=%v, want 5 and 50.5", got.Count, got.Sum)
	}
	want := []int64{1, 1, 1, 2}
	if len(got.CountPerBucket) != len(want) {
		t.Fatal("wrong bucket count:", got.CountPerBucket)
	}
	for i, n := range want {
		if got.CountPerBucket[i] != n {
			t.Errorf("bucket %d holds %d samples, want %d", i, got.CountPerBucket[i], n)
		}
	}
}

func TestRegisterHistogram(t *testing.T) {
	statsRegisterHistogram("HistogramRenderCheck", []float64{10, 100})

	v := expvar.Get("HistogramRenderCheck")
	if v == nil {
		t.Fatal("histogram not published")
	}
	var got histogram
	if err := json.Unmarshal([]byte(v.String()), &got); err != nil {
		t.Fatal("published histogram not valid JSON:", err)
	}
	if len(got.Bounds) != 2 || len(got.CountPerBucket) != 3 {
		t.Error("wrong histogram shape:", v.String())
	}
}
