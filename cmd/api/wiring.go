package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"cropcura/internal/api/handlers"
	"cropcura/internal/auth"
	"cropcura/internal/config"
	"cropcura/internal/core"
	"cropcura/internal/db"
	"cropcura/internal/events"
	"cropcura/internal/external"
	"cropcura/internal/storage"
	"cropcura/internal/telemetry"
	"cropcura/internal/types"
	"cropcura/internal/workspace"
)

// routeRegistrar is implemented by every handler group.
type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// closerFunc adapts a no-error Close (pgxpool) to io.Closer.
type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// buildServer wires every backend selected by cfg into a mounted core.Server.
func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*core.Server, error) {
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}

	var awsCfg aws.Config
	if cfg.NeedsAWS() {
		awsCfg, err = loadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
	}

	kv, err := newSessionStorage(ctx, cfg.Storage, srv)
	if err != nil {
		return nil, err
	}

	publisher := newPublisher(cfg.Events, awsCfg, logger)

	if err := wireMetrics(cfg.Metrics, awsCfg, srv); err != nil {
		return nil, err
	}

	clock := types.RealClock{}
	attempts := auth.NewAttemptTracker(auth.DefaultSecurityConfig(), clock)
	authSvc, err := auth.NewService(auth.ServiceConfig{
		Credentials: auth.Credentials{Username: cfg.Auth.DemoUsername, Password: cfg.Auth.DemoPassword},
		User: types.User{
			BankName:    cfg.Auth.BankName,
			LoanOfficer: cfg.Auth.LoanOfficer,
			Role:        cfg.Auth.Role,
		},
		Store:      kv,
		Sessions:   auth.SessionConfig{SessionDuration: cfg.Auth.SessionTTL, SessionIDPrefix: "sess_"},
		Attempts:   attempts,
		LoginDelay: cfg.Auth.LoginDelay,
		Publisher:  publisher,
		Clock:      clock,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating auth service: %w", err)
	}
	srv.Authenticator = authSvc
	srv.SecurityService = attempts

	workspaces := workspace.NewManager(workspace.ManagerConfig{
		Seed:      cfg.Seed.Value,
		Publisher: publisher,
		Clock:     clock,
		Logger:    logger,
	})
	srv.SessionEnded = workspaces.Close

	location := external.NewLocationService(external.NewLocator(cfg, logger), logger)

	cookie := handlers.DefaultCookieConfig()
	cookie.Name = srv.SessionCookieName()
	cookie.Secure = cfg.Auth.CookieSecure
	cookie.MaxAge = cfg.Auth.SessionTTL

	registrars := []routeRegistrar{
		handlers.NewAuthHandler(authSvc, workspaces, cookie, logger),
		handlers.NewDashboardHandler(workspaces),
		handlers.NewApplicationHandler(workspaces, srv.Validator, logger),
		handlers.NewFarmerHandler(workspaces, logger),
		handlers.NewFieldHandler(workspaces, srv.Validator),
		handlers.NewAlertHandler(workspaces),
		handlers.NewSettingsHandler(workspaces),
		handlers.NewMapHandler(cfg.Map),
		handlers.NewLocationHandler(location),
	}
	for _, reg := range registrars {
		srv.V1RouteRegistrars = append(srv.V1RouteRegistrars, reg.RegisterRoutes)
	}

	srv.MountRoutes()
	return srv, nil
}

// loadAWSConfig resolves credentials and region, pointing every client at
// EndpointURL when one is set (LocalStack).
func loadAWSConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	if cfg.EndpointURL != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.EndpointURL)
	}
	return awsCfg, nil
}

// newSessionStorage returns the KV sessions persist to. The postgres backend
// registers its pool as a closer and a health probe on srv.
func newSessionStorage(ctx context.Context, cfg config.StorageConfig, srv *core.Server) (storage.KV, error) {
	if cfg.Backend != "postgres" {
		return storage.NewMemoryKV(), nil
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to session database: %w", err)
	}
	repo := db.NewSessionStorageRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("preparing session schema: %w", err)
	}

	srv.Closers = append(srv.Closers, closerFunc(pool.Close))
	srv.HealthProbes = append(srv.HealthProbes, core.ProbeFunc{ProbeName: "database", Fn: pool.Ping})
	return repo, nil
}

func newPublisher(cfg config.EventsConfig, awsCfg aws.Config, logger *slog.Logger) events.Publisher {
	if cfg.Backend == "sqs" {
		return events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.QueueURL, logger)
	}
	return events.NewLogPublisher(logger)
}

// wireMetrics sets the request recorder and, for prometheus, the /metrics
// handler.
func wireMetrics(cfg config.MetricsConfig, awsCfg aws.Config, srv *core.Server) error {
	switch cfg.Backend {
	case "cloudwatch":
		srv.Metrics = telemetry.NewCloudWatchCollector(cloudwatch.NewFromConfig(awsCfg), cfg.Namespace, srv.Logger)
	case "prometheus":
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector, err := telemetry.NewCollector(reg)
		if err != nil {
			return fmt.Errorf("registering request metrics: %w", err)
		}
		srv.Metrics = collector
		srv.MetricsHandler = collector.Handler()
	default:
		srv.Metrics = telemetry.Nop{}
	}
	return nil
}
