package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stayhub/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so the counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveUpload(2048)
	observability.ObserveStore("write", nil)
	observability.ObserveCache("redis", "hit")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, family := range []string{
		"stayhub_http_requests_total",
		"stayhub_upload_files_total",
		"stayhub_store_ops_total",
		"stayhub_cache_events_total",
	} {
		if !strings.Contains(out, family) {
			t.Errorf("expected %s in output", family)
		}
	}
}
