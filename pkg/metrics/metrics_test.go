package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterAndGauge(t *testing.T) {
	r := New()

	c := r.Counter("showroom_requests_total", "Total requests")
	c.Inc()
	c.Add(2)
	if c.Value() != 3 {
		t.Errorf("counter = %d", c.Value())
	}

	g := r.Gauge("showroom_index_size", "Live index entries")
	g.Set(5)
	g.Inc()
	g.Dec()
	if g.Value() != 5 {
		t.Errorf("gauge = %d", g.Value())
	}

	// Same name returns the same instance.
	if r.Counter("showroom_requests_total", "") != c {
		t.Error("counter not deduplicated")
	}
}

func TestRender(t *testing.T) {
	r := New()
	r.Counter("showroom_searches_total", "Total searches").Add(7)
	r.Gauge("showroom_index_size", "Live entries").Set(5)

	out := r.Render()
	for _, want := range []string{
		"# HELP showroom_searches_total Total searches",
		"# TYPE showroom_searches_total counter",
		"showroom_searches_total 7",
		"# TYPE showroom_index_size gauge",
		"showroom_index_size 5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRender_Labels(t *testing.T) {
	r := New()
	r.Counter(WithLabels("showroom_errors_total", "stage", "embed"), "Errors by stage").Inc()
	r.Counter(WithLabels("showroom_errors_total", "stage", "store"), "").Add(2)

	out := r.Render()
	if !strings.Contains(out, `showroom_errors_total{stage="embed"} 1`) {
		t.Errorf("missing embed line:\n%s", out)
	}
	if !strings.Contains(out, `showroom_errors_total{stage="store"} 2`) {
		t.Errorf("missing store line:\n%s", out)
	}
	// One TYPE header for the shared base name.
	if strings.Count(out, "# TYPE showroom_errors_total") != 1 {
		t.Errorf("duplicated TYPE header:\n%s", out)
	}
}

func TestHistogram(t *testing.T) {
	r := New()
	h := r.Histogram("showroom_latency_seconds", "Latency", []float64{0.1, 1, 10})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(100)

	out := r.Render()
	for _, want := range []string{
		`showroom_latency_seconds_bucket{le="0.1"} 1`,
		`showroom_latency_seconds_bucket{le="1"} 2`,
		`showroom_latency_seconds_bucket{le="+Inf"} 3`,
		"showroom_latency_seconds_count 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestWithLabels(t *testing.T) {
	if got := WithLabels("foo", "k", "v"); got != `foo{k="v"}` {
		t.Errorf("got %q", got)
	}
	if got := WithLabels("foo"); got != "foo" {
		t.Errorf("no labels: %q", got)
	}
	if got := WithLabels("foo", "dangling"); got != "foo" {
		t.Errorf("odd pairs: %q", got)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("showroom_up", "").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content-type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "showroom_up 1") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
