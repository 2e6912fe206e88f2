package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/pkg/httputil"
	"github.com/redis/go-redis/v9"
)

// ComponentCheck represents the health of a single dependency.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "not_configured"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// ReadinessStatus is the body of GET /health/ready.
type ReadinessStatus struct {
	Status string                    `json:"status"` // "ready", "unavailable"
	Uptime string                    `json:"uptime"`
	Checks map[string]ComponentCheck `json:"checks"`
}

// HealthChecker probes the database and, when configured, Redis.
type HealthChecker struct {
	db          *sql.DB
	redisClient *redis.Client
	startTime   time.Time
}

// NewHealthChecker creates a new HealthChecker. Either dependency may be
// nil and is then reported as not_configured.
func NewHealthChecker(db *sql.DB, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{db: db, redisClient: redisClient, startTime: time.Now()}
}

// Check probes every dependency with a short timeout.
func (hc *HealthChecker) Check(ctx context.Context) ReadinessStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st := ReadinessStatus{
		Status: "ready",
		Uptime: time.Since(hc.startTime).Round(time.Second).String(),
		Checks: map[string]ComponentCheck{
			"database": probe(hc.db != nil, func() error { return hc.db.PingContext(ctx) }),
			"redis":    probe(hc.redisClient != nil, func() error { return hc.redisClient.Ping(ctx).Err() }),
		},
	}
	if st.Checks["database"].Status != "up" {
		st.Status = "unavailable"
	}
	return st
}

func probe(configured bool, ping func() error) ComponentCheck {
	if !configured {
		return ComponentCheck{Status: "not_configured"}
	}
	start := time.Now()
	if err := ping(); err != nil {
		return ComponentCheck{Status: "down", Message: "ping failed"}
	}
	return ComponentCheck{Status: "up", Latency: time.Since(start).String()}
}

// HealthCheck handles GET /health. It never touches dependencies.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready. Redis being down degrades the
// trigger cache only, so it does not fail readiness.
func (h *Handlers) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		httputil.JSON(w, http.StatusOK, ReadinessStatus{Status: "ready", Checks: map[string]ComponentCheck{}})
		return
	}
	st := h.health.Check(r.Context())
	code := http.StatusOK
	if st.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	httputil.JSON(w, code, st)
}
