package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cropcura/internal/events"
	"cropcura/internal/storage"
	"cropcura/internal/types"
)

// MsgInvalidCredentials is returned for any failed demo login.
const MsgInvalidCredentials = "Invalid credentials. Use demo_bank / demo123"

// PasswordHasher abstracts bcrypt operations for testability.
type PasswordHasher interface {
	CompareHashAndPassword(hashedPassword, password string) error
	GenerateFromPassword(password string) (string, error)
}

// bcryptHasher is the production implementation of PasswordHasher.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt PasswordHasher with the given cost. A cost
// of zero uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) CompareHashAndPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (b *bcryptHasher) GenerateFromPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Credentials is the single demo username/password pair.
type Credentials struct {
	Username string
	Password types.SecretString
}

// ServiceConfig holds the dependencies for creating a Service.
type ServiceConfig struct {
	Credentials Credentials
	User        types.User
	Store       storage.KV
	Sessions    SessionConfig
	TokenGen    TokenGenerator
	Hasher      PasswordHasher
	Attempts    *AttemptTracker
	LoginDelay  time.Duration
	Publisher   events.Publisher
	Clock       types.Clock
	Logger      *slog.Logger
}

// Service authenticates the demo officer and manages persisted sessions.
type Service struct {
	username     string
	passwordHash string
	user         types.User
	sessions     *sessionStore
	hasher       PasswordHasher
	attempts     *AttemptTracker
	delay        time.Duration
	publisher    events.Publisher
	clock        types.Clock
	logger       *slog.Logger
}

// NewService creates a Service. The configured password is hashed once here
// so login compares against a bcrypt hash rather than the plain value.
// Nil Store, TokenGen, Hasher, Attempts, Clock and Logger get defaults.
func NewService(cfg ServiceConfig) (*Service, error) {
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	kv := cfg.Store
	if kv == nil {
		kv = storage.NewMemoryKV()
	}
	tokenGen := cfg.TokenGen
	if tokenGen == nil {
		tokenGen = NewCryptoTokenGenerator()
	}
	sessCfg := cfg.Sessions
	if sessCfg.SessionDuration <= 0 {
		sessCfg = DefaultSessionConfig()
	}
	attempts := cfg.Attempts
	if attempts == nil {
		attempts = NewAttemptTracker(DefaultSecurityConfig(), clock)
	}

	hash, err := hasher.GenerateFromPassword(cfg.Credentials.Password.Unmask())
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to hash demo password", err)
	}

	return &Service{
		username:     cfg.Credentials.Username,
		passwordHash: hash,
		user:         cfg.User,
		sessions: &sessionStore{
			kv:       kv,
			tokenGen: tokenGen,
			config:   sessCfg,
			clock:    clock,
			logger:   logger,
		},
		hasher:    hasher,
		attempts:  attempts,
		delay:     cfg.LoginDelay,
		publisher: cfg.Publisher,
		clock:     clock,
		logger:    logger,
	}, nil
}

// Login checks the demo credentials after the simulated delay and persists a
// new session on success. ip is used for throttling only.
//
// Steps:
//  1. Reject blank input.
//  2. Reject throttled username or IP.
//  3. Wait the login delay, honouring ctx.
//  4. Compare username (constant time) and password (bcrypt).
//  5. Persist the session under StorageKey and emit session.started.
func (s *Service) Login(ctx context.Context, username, password, ip string) (*types.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, types.NewAppError(types.ErrCodeValidationCredentials, "bank name and password are required", nil)
	}

	if !s.attempts.CheckLoginAllowed(username, ip) {
		s.logger.Warn("login throttled", "username", username, "ip", ip)
		return nil, types.NewAppError(types.ErrCodeRateLimit, "too many failed login attempts, try again later", nil)
	}

	if err := wait(ctx, s.delay); err != nil {
		return nil, err
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := s.hasher.CompareHashAndPassword(s.passwordHash, password) == nil
	if !userOK || !passOK {
		s.attempts.RecordAttempt(username, ip, false)
		s.logger.Info("login failed", "username", username, "ip", ip)
		return nil, types.NewAppError(types.ErrCodeAuthInvalidCreds, MsgInvalidCredentials, nil)
	}
	s.attempts.RecordAttempt(username, ip, true)

	session, err := s.sessions.create(ctx, s.user)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.publisher, s.logger, events.New(
		events.KindSessionStarted, session.ID, session.ID, s.clock.Now(),
		map[string]any{"bankName": session.User.BankName},
	))
	return session, nil
}

// Logout removes the persisted session. Unknown ids are not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.remove(ctx, sessionID); err != nil {
		return err
	}
	events.Emit(ctx, s.publisher, s.logger, events.New(
		events.KindSessionEnded, sessionID, sessionID, s.clock.Now(), nil,
	))
	return nil
}

// Restore rehydrates a persisted session.
func (s *Service) Restore(ctx context.Context, sessionID string) (*types.Session, error) {
	if sessionID == "" {
		return nil, types.NewAppError(types.ErrCodeAuthTokenMissing, "no session token provided", nil)
	}
	return s.sessions.load(ctx, sessionID)
}

// ResolveToken maps a session token to the acting officer.
func (s *Service) ResolveToken(ctx context.Context, token string) (*types.Actor, error) {
	session, err := s.Restore(ctx, token)
	if err != nil {
		return nil, err
	}
	return &types.Actor{
		SessionID: session.ID,
		User:      session.User,
		Source:    "dashboard",
	}, nil
}

// wait blocks for d or until ctx is done. It starts no goroutines.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
