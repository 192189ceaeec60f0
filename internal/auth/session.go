package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cropcura/internal/storage"
	"cropcura/internal/types"
)

// StorageKey is the fixed key the signed-in user record is persisted under.
const StorageKey = "cropcura_user"

// SessionConfig holds configuration for session management.
type SessionConfig struct {
	// SessionDuration is the lifetime of a new session.
	SessionDuration time.Duration

	// SessionIDPrefix is the prefix for session IDs ("sess_").
	SessionIDPrefix string
}

// DefaultSessionConfig returns the default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SessionDuration: 24 * time.Hour,
		SessionIDPrefix: "sess_",
	}
}

// TokenGenerator abstracts entropy sources for testability.
type TokenGenerator interface {
	GenerateSessionID() (string, error)
}

// CryptoTokenGenerator generates session ids from crypto/rand.
type CryptoTokenGenerator struct {
	// SessionIDPrefix is prepended to generated session IDs.
	SessionIDPrefix string
}

// NewCryptoTokenGenerator creates a CryptoTokenGenerator with the "sess_" prefix.
func NewCryptoTokenGenerator() *CryptoTokenGenerator {
	return &CryptoTokenGenerator{SessionIDPrefix: "sess_"}
}

// GenerateSessionID returns "sess_" followed by 64 hex characters.
func (g *CryptoTokenGenerator) GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session ID: %w", err)
	}
	return g.SessionIDPrefix + hex.EncodeToString(b), nil
}

// sessionStore persists sessions in a storage.KV, one record per session
// scope under StorageKey.
type sessionStore struct {
	kv       storage.KV
	tokenGen TokenGenerator
	config   SessionConfig
	clock    types.Clock
	logger   *slog.Logger
}

func (s *sessionStore) create(ctx context.Context, user types.User) (*types.Session, error) {
	id, err := s.tokenGen.GenerateSessionID()
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to generate session ID", err)
	}
	now := s.clock.Now()
	session := &types.Session{
		ID:        id,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionDuration),
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to encode session", err)
	}
	if err := s.kv.Put(ctx, id, StorageKey, raw); err != nil {
		return nil, storageError("failed to persist session", err)
	}
	s.logger.Info("session created", "session_id", id)
	return session, nil
}

// load rehydrates a session and enforces expiry. Expired records are removed.
func (s *sessionStore) load(ctx context.Context, id string) (*types.Session, error) {
	raw, err := s.kv.Get(ctx, id, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, types.NewAppError(types.ErrCodeAuthTokenInvalid, "session not found", nil)
		}
		return nil, storageError("failed to read session", err)
	}
	var session types.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		s.logger.Warn("discarding unreadable session record", "session_id", id, "error", err)
		_ = s.kv.Delete(ctx, id, StorageKey)
		return nil, types.NewAppError(types.ErrCodeAuthTokenInvalid, "session not found", err)
	}
	if s.clock.Now().After(session.ExpiresAt) {
		s.logger.Info("session expired", "session_id", id, "expired_at", session.ExpiresAt)
		if err := s.kv.Delete(ctx, id, StorageKey); err != nil {
			s.logger.Warn("failed to remove expired session", "session_id", id, "error", err)
		}
		return nil, types.NewAppError(types.ErrCodeAuthSessionExpired, "session has expired", nil)
	}
	return &session, nil
}

func (s *sessionStore) remove(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, id, StorageKey); err != nil {
		return storageError("failed to remove session", err)
	}
	s.logger.Info("session invalidated", "session_id", id)
	return nil
}

func storageError(msg string, err error) error {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return types.NewAppError(types.ErrCodeInternalStorage, msg, err)
}
