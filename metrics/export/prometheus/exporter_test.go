package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	agriAuth "github.com/agrovia/agriAuth"
	"github.com/prometheus/client_golang/prometheus"
)

type fakeSource struct {
	snapshot agriAuth.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() agriAuth.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                      { return f.dropped }

func TestCollectorReportsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollectorFromSource(fakeSource{
		snapshot: agriAuth.MetricsSnapshot{
			Counters: map[agriAuth.MetricID]uint64{
				agriAuth.MetricRenewalCoalesced: 5,
				agriAuth.MetricGuardAuthorized:  11,
			},
		},
		dropped: 2,
	}))

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	values := map[string]float64{}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			values[family.GetName()] = m.GetCounter().GetValue()
		}
	}

	if got := values["agriauth_renewal_coalesced_total"]; got != 5 {
		t.Fatalf("renewal_coalesced = %v, want 5", got)
	}
	if got := values["agriauth_guard_authorized_total"]; got != 11 {
		t.Fatalf("guard_authorized = %v, want 11", got)
	}
	if got := values["agriauth_audit_dropped_total"]; got != 2 {
		t.Fatalf("audit_dropped = %v, want 2", got)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	handler := Handler(fakeSource{
		snapshot: agriAuth.MetricsSnapshot{
			Counters: map[agriAuth.MetricID]uint64{agriAuth.MetricLoginSuccess: 7},
		},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "agriauth_login_success_total 7") {
		t.Fatalf("exposition missing counter:\n%s", body)
	}
}
