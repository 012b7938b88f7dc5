// Package server boots the HTTP service: config, store, cache, payment
// gateway, settlement outbox, middleware chain, routes.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mobilemart/server/app/routes"
	"github.com/mobilemart/server/config"
	"github.com/mobilemart/server/pkg/cache"
	"github.com/mobilemart/server/pkg/logger"
	"github.com/mobilemart/server/pkg/metrics"
	"github.com/mobilemart/server/pkg/middleware"
	"github.com/mobilemart/server/pkg/outbox"
	"github.com/mobilemart/server/pkg/payment"
	"github.com/mobilemart/server/pkg/reqid"
	"github.com/mobilemart/server/pkg/response"
	"github.com/mobilemart/server/pkg/router"
	"github.com/mobilemart/server/pkg/schedule"
	"github.com/mobilemart/server/pkg/store"
)

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.LogToMongo() {
		sink, err := logger.NewMongoHandler(config.MongoURI(), config.MongoDatabase(), "logs")
		if err != nil {
			logger.Warn("mongo log sink unavailable, stdout only", "error", err)
		} else {
			defer sink.Close()
			logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), sink))
		}
	}

	st, err := store.ConnectMongo(ctx, config.MongoURI(), config.MongoDatabase(), config.StoreTimeout())
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, role cache disabled", "error", err)
	}

	gateway := payment.NewStripe(config.StripeSecretKey())
	settlementLog := outbox.New(st, "settlement_outbox")

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	r.Get("/", "root", func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, "mobilemart server is running")
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.Deps{
		Store:   st,
		Gateway: gateway,
		Outbox:  settlementLog,
	})

	// Handlers are registered by RegisterAPI, so the drainer is
	// scheduled after it. It retries any settlement steps a request
	// left pending.
	schedule.Every(30).Seconds().Name("settlement:drain").WithoutOverlapping().Run(func() {
		if err := settlementLog.Drain(ctx); err != nil {
			logger.Error("settlement drain failed", "error", err)
		}
	})
	schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", config.AppPort(), "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
