package loadgen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"ai-samples-api/internal/observability"
)

type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
}

type Result struct {
	TotalRequests int64
	Failures      int64
	Status2xx     int64
	Status4xx     int64
	Status5xx     int64
}

type step struct {
	method string
	path   string
	body   string
}

// Run replays a traffic profile against a running instance so dashboards and
// alert rules can be validated with realistic request mixes.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 15
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}

	steps := stepsForProfile(cfg.Profile)
	if len(steps) == 0 {
		return Result{}, fmt.Errorf("unknown profile: %s", cfg.Profile)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var total, failures, s2xx, s4xx, s5xx int64
	jobs := make(chan step, cfg.Concurrency*2)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Concurrency; i++ {
		g.Go(func() error {
			for st := range jobs {
				var body *strings.Reader
				if st.body != "" {
					body = strings.NewReader(st.body)
				} else {
					body = strings.NewReader("")
				}
				req, err := http.NewRequestWithContext(gctx, st.method, cfg.BaseURL+st.path, body)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				if st.body != "" {
					req.Header.Set("Content-Type", "application/json")
				}
				resp, err := client.Do(req)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					observability.RecordLoadgenRequest(gctx, "error", cfg.Profile)
					continue
				}
				_ = resp.Body.Close()
				atomic.AddInt64(&total, 1)
				switch {
				case resp.StatusCode >= 200 && resp.StatusCode < 300:
					atomic.AddInt64(&s2xx, 1)
					observability.RecordLoadgenRequest(gctx, "2xx", cfg.Profile)
				case resp.StatusCode >= 400 && resp.StatusCode < 500:
					atomic.AddInt64(&s4xx, 1)
					observability.RecordLoadgenRequest(gctx, "4xx", cfg.Profile)
				case resp.StatusCode >= 500:
					atomic.AddInt64(&s5xx, 1)
					observability.RecordLoadgenRequest(gctx, "5xx", cfg.Profile)
				}
			}
			return nil
		})
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
	defer ticker.Stop()
	i := 0
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			jobs <- steps[i%len(steps)]
			i++
		}
	}
	close(jobs)
	_ = g.Wait()

	return Result{TotalRequests: total, Failures: failures, Status2xx: s2xx, Status4xx: s4xx, Status5xx: s5xx}, nil
}

func stepsForProfile(profile string) []step {
	login := step{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   `{"email": "loadgen@example.test", "password": "not-a-real-password"}`,
	}
	liveness := step{method: http.MethodGet, path: "/health/live"}
	readiness := step{method: http.MethodGet, path: "/health/ready"}
	listUnauthenticated := step{method: http.MethodGet, path: "/api/users"}
	badRegistration := step{
		method: http.MethodPost,
		path:   "/api/users",
		body:   `{"username": "a!", "email": "nope", "password": "weak"}`,
	}

	switch strings.ToLower(profile) {
	case "", "mixed":
		return []step{login, liveness, readiness, listUnauthenticated}
	case "auth":
		return []step{login}
	case "error-heavy":
		return []step{listUnauthenticated, badRegistration, login}
	default:
		return nil
	}
}
