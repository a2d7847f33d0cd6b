package httpx

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

// Health states reported per dependency.
const (
	HealthOK          = "ok"
	HealthUnreachable = "unreachable"
	HealthDisabled    = "disabled"
	HealthDegraded    = "degraded"
)

// HealthChecker is anything with a Ping: the database, the in-memory store,
// the redis client and the event bus all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks lists the dependencies probed by HealthHandler. A nil checker
// is reported as disabled and does not affect the overall status.
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	EventBus string `json:"event_bus"`
}

// HealthHandler probes every configured dependency and answers 503 when any
// of them is unreachable.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{
			Status:   HealthOK,
			Database: probe(ctx, checks.Database),
			Redis:    probe(ctx, checks.Redis),
			EventBus: probe(ctx, checks.EventBus),
		}

		status := http.StatusOK
		for _, s := range []string{resp.Database, resp.Redis, resp.EventBus} {
			if s == HealthUnreachable {
				resp.Status = HealthDegraded
				status = http.StatusServiceUnavailable
			}
		}
		JSON(w, status, resp)
	}
}

func probe(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return HealthDisabled
	}
	if err := c.Ping(ctx); err != nil {
		return HealthUnreachable
	}
	return HealthOK
}
