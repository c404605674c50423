// Package server initializes and runs the newsletter application server.
// It opens storage, wires services and the HTTP API, and handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/newsletter/internal/cpubound"
	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/dmitrijs2005/newsletter/internal/email"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/password"
	"github.com/dmitrijs2005/newsletter/internal/secret"
	"github.com/dmitrijs2005/newsletter/internal/server/auth"
	"github.com/dmitrijs2005/newsletter/internal/server/config"
	"github.com/dmitrijs2005/newsletter/internal/server/httpapi"
	"github.com/dmitrijs2005/newsletter/internal/server/metrics"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories"
	"github.com/dmitrijs2005/newsletter/internal/server/services"
	"golang.org/x/time/rate"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	storage     repositories.Manager
	hashPool    *cpubound.Pool
	rateLimiter *httpapi.RateLimiter
	httpServer  *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewDefault()

	storage, err := repositories.NewPostgresManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher, err := password.NewHasher(password.DefaultParams())
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	hashPool := cpubound.NewPool(cfg.HashWorkers, cfg.HashQueueSize)

	issuer := auth.NewTokenIssuer(secret.NewString(cfg.SecretKey), cfg.TokenValidityDuration)

	authenticator, err := auth.NewAuthenticator(storage.Users(), hasher, issuer, hashPool, logger)
	if err != nil {
		return nil, fmt.Errorf("authenticator init error: %w", err)
	}

	sender, err := domain.ParseSubscriberEmail(cfg.EmailSenderAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid email sender address: %w", err)
	}
	emailClient := email.NewClient(cfg.EmailBaseURL, sender, secret.NewString(cfg.EmailAuthToken), cfg.EmailSendTimeout)

	collector := metrics.NewCollector()

	subscriptionService := services.NewSubscriptionService(
		storage.Subscriptions(), emailClient, collector, logger, cfg.ConfirmBaseURL)
	newsletterService := services.NewNewsletterService(
		storage.Subscriptions(), emailClient, collector, logger)

	rateLimiter := httpapi.NewRateLimiter(httpapi.RateLimiterConfig{
		Rate:            rate.Limit(cfg.RateLimitRPS),
		Burst:           cfg.RateLimitBurst,
		CleanupInterval: httpapi.DefaultRateLimiterConfig().CleanupInterval,
	})

	router := httpapi.NewRouter(&httpapi.RouterDeps{
		Subscriptions: subscriptionService,
		Newsletters:   newsletterService,
		Authority:     authenticator,
		Metrics:       collector,
		RateLimiter:   rateLimiter,
		Logger:        logger,
	})

	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, router, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		storage:     storage,
		hashPool:    hashPool,
		rateLimiter: rateLimiter,
		httpServer:  httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	app.rateLimiter.Stop()
	app.hashPool.Close()
	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, "error closing storage", "error", err)
	}
}
