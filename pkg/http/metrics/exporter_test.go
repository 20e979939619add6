package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	metrics "cpuload/pkg/http/metrics"
)

func TestExporterTracksRequestLifecycle(t *testing.T) {
	t.Parallel()

	exporter := metrics.NewExporter()

	exporter.TransitionState("", "launching")
	exporter.TransitionState("launching", "reporting")
	exporter.AddWorkers(3)
	exporter.ObserveProgress()
	exporter.ObserveProgress()
	exporter.ObserveRequest("completed")
	exporter.ObserveRequest(" ")
	exporter.ObserveRequestedDuration(7)

	expected := `
# HELP cpuload_requests_active In-flight SetLoad calls by lifecycle state.
# TYPE cpuload_requests_active gauge
cpuload_requests_active{state="launching"} 0
cpuload_requests_active{state="reporting"} 1
# HELP cpuload_requests_total SetLoad calls by outcome.
# TYPE cpuload_requests_total counter
cpuload_requests_total{result="completed"} 1
cpuload_requests_total{result="unknown"} 1
# HELP cpuload_burn_workers_active Burn workers currently occupying a core.
# TYPE cpuload_burn_workers_active gauge
cpuload_burn_workers_active 3
# HELP cpuload_progress_updates_total Progress updates delivered to callers.
# TYPE cpuload_progress_updates_total counter
cpuload_progress_updates_total 2
`

	err := testutil.GatherAndCompare(
		exporter.Registry(),
		strings.NewReader(expected),
		"cpuload_requests_active",
		"cpuload_requests_total",
		"cpuload_burn_workers_active",
		"cpuload_progress_updates_total",
	)
	if err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}

	if got := testutil.CollectAndCount(exporter.Registry(), "cpuload_requested_duration_seconds"); got != 1 {
		t.Fatalf("expected one duration histogram, got %d", got)
	}
}

func TestExporterClampsHostCPU(t *testing.T) {
	t.Parallel()

	exporter := metrics.NewExporter()

	exporter.ObserveHostCPU(1.7)

	expected := `
# HELP cpuload_host_cpu_utilisation_ratio Last host CPU utilisation sampled during a burn.
# TYPE cpuload_host_cpu_utilisation_ratio gauge
cpuload_host_cpu_utilisation_ratio 1
`

	err := testutil.GatherAndCompare(
		exporter.Registry(),
		strings.NewReader(expected),
		"cpuload_host_cpu_utilisation_ratio",
	)
	if err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestExporterServeHTTP(t *testing.T) {
	t.Parallel()

	exporter := metrics.NewExporter()
	exporter.AddWorkers(2)

	recorder := httptest.NewRecorder()
	exporter.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	response := recorder.Result()
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if !strings.Contains(string(body), "cpuload_burn_workers_active 2") {
		t.Fatalf("metrics body missing worker gauge:\n%s", body)
	}
}
