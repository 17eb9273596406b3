package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/greenplate/foodsafe-backend/internal/adapter/postgres"
	"github.com/greenplate/foodsafe-backend/internal/adapter/postgres/product"
	"github.com/greenplate/foodsafe-backend/internal/adapter/postgres/profile"
	"github.com/greenplate/foodsafe-backend/internal/adapter/postgres/refdata"
	"github.com/greenplate/foodsafe-backend/internal/adapter/rediscache"
	"github.com/greenplate/foodsafe-backend/internal/auth"
	"github.com/greenplate/foodsafe-backend/internal/config"
	"github.com/greenplate/foodsafe-backend/internal/safety"
	"github.com/greenplate/foodsafe-backend/internal/safety/dictionary"
	"github.com/greenplate/foodsafe-backend/internal/transport/middleware"
	"github.com/greenplate/foodsafe-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// storage adapters and the evaluation engine, and serves HTTP until ctx is
// cancelled, then drains in-flight requests within the shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	rdb, err := rediscache.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck
	}

	dicts, err := dictionary.Load(cfg.Safety.DictionaryPath)
	if err != nil {
		return fmt.Errorf("load dictionaries: %w", err)
	}

	productRepo := product.New(pool)
	profileRepo := profile.New(pool)
	refRepo := refdata.New(pool)
	snapshots := rediscache.New(rdb, refRepo, logger)

	engine := safety.New(logger, profileRepo, snapshots, productRepo, dicts, safety.PolicyFromConfig(cfg.Safety))

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	router := rest.NewRouter(rest.RouterDeps{
		Safety:    rest.NewSafetyHandler(engine, logger),
		Search:    rest.NewSearchHandler(productRepo, engine, logger, cfg.Safety.SearchLimit),
		Recommend: rest.NewRecommendHandler(productRepo, engine, logger, cfg.Safety.RecommendLimit),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
	})

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Identity(jwtManager),
	}
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.Server.RateLimitPerMinute))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      middleware.Chain(mws...)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
