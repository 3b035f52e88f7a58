// Command agriauth-probe exercises the session pipeline end to end: it
// stands up a stub identity service plus a protected API, drives waves of
// concurrent requests that all fault with an expired credential, and checks
// that each wave coalesced into exactly one renewal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	agriAuth "github.com/agrovia/agriAuth"
	"github.com/agrovia/agriAuth/session"
)

type probeServers struct {
	identity *httptest.Server
	api      *httptest.Server

	mu         sync.Mutex
	validToken string
	renewals   atomic.Int64
}

func main() {
	var (
		waves       = flag.Int("waves", 50, "number of expiry waves to run")
		concurrency = flag.Int("concurrency", 64, "concurrent requests per wave")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		slot        = flag.String("slot", "agriauth_probe", "session storage slot")
		ttl         = flag.Duration("ttl", time.Hour, "redis record ttl")
	)
	flag.Parse()

	if *waves <= 0 || *concurrency <= 0 {
		fmt.Fprintln(os.Stderr, "waves and concurrency must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	servers := newProbeServers()
	defer servers.close()

	core, err := agriAuth.New().
		WithConfig(probeConfig(servers.identity.URL, *slot)).
		WithBinding(session.NewRedisBinding(client, "agriauth_probe", *ttl)).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build core: %v\n", err)
		os.Exit(1)
	}
	defer core.Close()

	if _, err := core.Login(ctx, "probe@farm.local", "probe-password"); err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	httpClient := core.HTTPClient()
	latencies := make([]time.Duration, 0, *waves**concurrency)
	var latencyMu sync.Mutex

	start := time.Now()
	for wave := 0; wave < *waves; wave++ {
		// Expire the credential server-side: every request in this wave
		// faults with 401 and must share one renewal.
		servers.rotate(fmt.Sprintf("T%d", wave+1))

		var wg sync.WaitGroup
		wg.Add(*concurrency)
		for i := 0; i < *concurrency; i++ {
			go func() {
				defer wg.Done()
				began := time.Now()
				resp, err := httpClient.Get(servers.api.URL + "/api/fields")
				if err != nil {
					fmt.Fprintf(os.Stderr, "request: %v\n", err)
					return
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					fmt.Fprintf(os.Stderr, "unexpected status %d\n", resp.StatusCode)
					return
				}
				latencyMu.Lock()
				latencies = append(latencies, time.Since(began))
				latencyMu.Unlock()
			}()
		}
		wg.Wait()
	}
	elapsed := time.Since(start)

	renewals := servers.renewals.Load()
	snapshot := core.MetricsSnapshot()

	fmt.Println("---- results ----")
	fmt.Printf("waves=%d concurrency=%d elapsed=%s\n", *waves, *concurrency, elapsed.Round(time.Millisecond))
	fmt.Printf("renewal calls observed: %d (want %d)\n", renewals, *waves)
	fmt.Printf("renewals started=%d coalesced=%d retry_success=%d\n",
		snapshot.Counters[agriAuth.MetricRenewalStarted],
		snapshot.Counters[agriAuth.MetricRenewalCoalesced],
		snapshot.Counters[agriAuth.MetricRetrySuccess],
	)
	printLatencies(latencies)

	if renewals != int64(*waves) {
		fmt.Fprintln(os.Stderr, "FAIL: renewal coalescing violated")
		os.Exit(1)
	}
	fmt.Println("OK")
}

func probeConfig(identityURL, slot string) agriAuth.Config {
	return agriAuth.Config{
		Identity: agriAuth.IdentityConfig{
			BaseURL:        identityURL,
			RequestTimeout: 10 * time.Second,
		},
		Session:  agriAuth.SessionConfig{Slot: slot},
		Pipeline: agriAuth.PipelineConfig{IdentityField: "created_by", AttachRequestID: true},
		Metrics:  agriAuth.MetricsConfig{Enabled: true},
	}
}

func newProbeServers() *probeServers {
	s := &probeServers{validToken: "T0"}

	identityMux := http.NewServeMux()
	identityMux.HandleFunc("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(agriAuth.LoginResult{
			Token:        "T0",
			RefreshToken: "R0",
			User:         agriAuth.UserRecord{ID: "probe", Role: "manager"},
		})
	})
	identityMux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		s.renewals.Add(1)
		s.mu.Lock()
		token := s.validToken
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(agriAuth.TokenPair{AccessToken: token})
	})
	identityMux.HandleFunc("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s.identity = httptest.NewServer(identityMux)

	s.api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		valid := "Bearer " + s.validToken
		s.mu.Unlock()
		if r.Header.Get("Authorization") != valid {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	return s
}

func (s *probeServers) rotate(token string) {
	s.mu.Lock()
	s.validToken = token
	s.mu.Unlock()
}

func (s *probeServers) close() {
	s.identity.Close()
	s.api.Close()
}

func printLatencies(latencies []time.Duration) {
	if len(latencies) == 0 {
		fmt.Println("no successful requests")
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	p := func(q float64) time.Duration {
		idx := int(q * float64(len(latencies)-1))
		return latencies[idx]
	}
	fmt.Printf("latency p50=%s p95=%s p99=%s max=%s\n",
		p(0.50).Round(time.Microsecond),
		p(0.95).Round(time.Microsecond),
		p(0.99).Round(time.Microsecond),
		latencies[len(latencies)-1].Round(time.Microsecond),
	)
}
