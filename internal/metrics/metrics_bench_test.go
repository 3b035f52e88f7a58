package metrics

import "testing"

func BenchmarkInc(b *testing.B) {
	m := New(Config{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.Inc(MetricRenewalSuccess)
	}
}

func BenchmarkIncDisabled(b *testing.B) {
	m := New(Config{Enabled: false})
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.Inc(MetricRenewalSuccess)
	}
}

func BenchmarkIncParallel(b *testing.B) {
	m := New(Config{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Inc(MetricRenewalCoalesced)
		}
	})
}
