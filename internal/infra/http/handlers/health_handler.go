package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const (
	depHealthy       = "healthy"
	depNotConfigured = "not configured"
)

// probe reports nil when the dependency answers. A nil probe marks a
// dependency this deployment does not use.
type probe func(ctx context.Context) error

type HealthHandler struct {
	probes    map[string]probe
	version   string
	startedAt time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler accepts nil for any backend the service runs without.
func NewHealthHandler(db *sql.DB, rabbitMQ *amqp091.Connection, redisClient *redis.Client, version string) *HealthHandler {
	probes := map[string]probe{"database": nil, "rabbitmq": nil, "redis": nil}
	if db != nil {
		probes["database"] = db.PingContext
	}
	if rabbitMQ != nil {
		probes["rabbitmq"] = func(context.Context) error {
			if rabbitMQ.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}
	}
	if redisClient != nil {
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	return &HealthHandler{probes: probes, version: version, startedAt: time.Now()}
}

// Handle answers 503 as soon as one configured dependency fails its probe.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:       "healthy",
		Version:      h.version,
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		Dependencies: make(map[string]string, len(h.probes)),
	}
	for name, check := range h.probes {
		switch {
		case check == nil:
			resp.Dependencies[name] = depNotConfigured
		default:
			if err := check(ctx); err != nil {
				resp.Dependencies[name] = "unhealthy: " + err.Error()
				resp.Status = "degraded"
			} else {
				resp.Dependencies[name] = depHealthy
			}
		}
	}

	code := http.StatusOK
	if resp.Status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
