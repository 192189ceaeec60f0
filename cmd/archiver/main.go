// Package main is the entrypoint for the Archiver Lambda function.
//
// An EventBridge schedule invokes the archiver with a MaintenancePayload.
// The only task today purges session_storage rows that have not been
// written for longer than the session TTL; their cookies have expired, so
// no request can rehydrate them again.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"cropcura/internal/config"
	"cropcura/internal/db"
)

// TaskType names a maintenance job.
type TaskType string

const (
	// TaskPurgeSessions removes idle persisted sessions.
	TaskPurgeSessions TaskType = "purge_sessions"
)

// purgeBatchLimit caps rows deleted per statement; the handler loops until
// a short batch comes back.
const purgeBatchLimit = 500

// maxPurgeBatches bounds one invocation.
const maxPurgeBatches = 200

// MaintenancePayload is the EventBridge input.
type MaintenancePayload struct {
	Task          TaskType   `json:"task"`
	ReferenceTime *time.Time `json:"reference_time,omitempty"`
}

// SessionPurger deletes session rows last written before a cutoff.
type SessionPurger interface {
	PurgeStale(ctx context.Context, before time.Time, limit int) (int64, error)
}

// Handler holds the dependencies for the archiver Lambda.
type Handler struct {
	Sessions  SessionPurger
	Retention time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Handle runs the task named by payload.
func (h *Handler) Handle(ctx context.Context, payload MaintenancePayload) (string, error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	if payload.ReferenceTime != nil {
		now = payload.ReferenceTime.UTC()
	}

	if payload.Task == "" {
		return "", fmt.Errorf("empty task type in maintenance payload")
	}

	logger.InfoContext(ctx, "archiver handler invoked",
		"task", payload.Task,
		"reference_time", now.Format(time.RFC3339),
	)

	items, err := h.dispatch(ctx, payload.Task, now)
	if err != nil {
		logger.ErrorContext(ctx, "task execution failed",
			"task", payload.Task,
			"error", err,
			"items_before_error", items,
		)
		return "", fmt.Errorf("task %s failed: %w", payload.Task, err)
	}

	result := fmt.Sprintf("task %s complete: %d items processed", payload.Task, items)
	logger.InfoContext(ctx, result, "task", payload.Task, "items", items)
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, task TaskType, now time.Time) (int64, error) {
	switch task {
	case TaskPurgeSessions:
		return h.purgeSessions(ctx, now.Add(-h.Retention))
	default:
		return 0, fmt.Errorf("unknown task type: %q", task)
	}
}

func (h *Handler) purgeSessions(ctx context.Context, before time.Time) (int64, error) {
	var total int64
	for i := 0; i < maxPurgeBatches; i++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := h.Sessions.PurgeStale(ctx, before, purgeBatchLimit)
		total += n
		if err != nil {
			return total, fmt.Errorf("purging sessions: %w", err)
		}
		if n < purgeBatchLimit {
			break
		}
	}
	return total, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Storage.Backend != "postgres" {
		logger.Error("archiver requires STORAGE_BACKEND=postgres", "backend", cfg.Storage.Backend)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := db.NewPool(ctx, cfg.Storage)
	cancel()
	if err != nil {
		logger.Error("failed to connect to session database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	handler := &Handler{
		Sessions:  db.NewSessionStorageRepository(pool),
		Retention: cfg.Auth.SessionTTL,
		Logger:    logger,
	}

	logger.Info("archiver initialized", "retention", cfg.Auth.SessionTTL.String())
	lambda.Start(handler.Handle)
}
