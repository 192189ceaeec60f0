package core

import (
	"context"
	"time"

	"cropcura/internal/types"
)

// Authenticator decouples the HTTP layer from the session backend, allowing
// for easy mocking in tests.
type Authenticator interface {
	// ResolveToken loads the persisted session behind token and returns the
	// Actor. It returns auth_token_invalid when no session exists and
	// auth_session_expired when the session has lapsed.
	ResolveToken(ctx context.Context, token string) (*types.Actor, error)
}

// MetricsCollector defines the interface for recording API telemetry.
type MetricsCollector interface {
	// RecordRequest records latency and count for one request. endpoint is
	// the matched route pattern, not the raw path.
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// SecurityService reports IPs that have exceeded the failed-login threshold.
type SecurityService interface {
	IsIPBlocked(ip string) bool
}
