package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// Pinger is anything that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// redisPinger adapts *redis.Client, whose Ping returns a *StatusCmd.
type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// HealthReport is the outcome of one health check.
type HealthReport struct {
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

// Healthy reports whether the service can serve requests. Redis is optional.
func (r HealthReport) Healthy() bool {
	return r.Postgres == StatusUp
}

// HealthChecker pings the backing stores.
type HealthChecker struct {
	postgres Pinger
	redis    Pinger
	timeout  time.Duration
}

// NewHealthChecker creates a HealthChecker. rdb may be nil when Redis is not in use.
func NewHealthChecker(pool *pgxpool.Pool, rdb *redis.Client) *HealthChecker {
	hc := &HealthChecker{postgres: pool, timeout: 2 * time.Second}
	if rdb != nil {
		hc.redis = redisPinger{rdb: rdb}
	}
	return hc
}

// NewHealthCheckerWith builds a checker from arbitrary pingers; redis may be nil.
func NewHealthCheckerWith(postgres, redis Pinger) *HealthChecker {
	return &HealthChecker{postgres: postgres, redis: redis, timeout: 2 * time.Second}
}

// Check pings every store within a short deadline.
func (h *HealthChecker) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := HealthReport{Postgres: StatusUp, Redis: StatusDisabled}
	if err := h.postgres.Ping(ctx); err != nil {
		report.Postgres = StatusDown
	}
	if h.redis != nil {
		report.Redis = StatusUp
		if err := h.redis.Ping(ctx); err != nil {
			report.Redis = StatusDown
		}
	}
	return report
}
