package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	ssso "github.com/delbertbeta/s-sso"
	sssoecho "github.com/delbertbeta/s-sso/api/echo"
	"github.com/delbertbeta/s-sso/internal/auth"
	"github.com/delbertbeta/s-sso/internal/metrics"
	"github.com/delbertbeta/s-sso/internal/server"
	"github.com/delbertbeta/s-sso/tracing"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "migrate the relational schema before serving")
}

func serve(ctx context.Context) error {
	appLogger.Info(ctx, "Starting s-sso server", map[string]interface{}{
		"http_port":      cfg.HTTPPort,
		"frontend_url":   cfg.FrontendURL,
		"store_driver":   cfg.StoreDriver,
		"session_driver": cfg.SessionDriver,
		"log_level":      cfg.LogLevel,
		"otel_service":   cfg.OtelServiceName,
	})

	tracerProvider, err := tracing.InitTracerProvider(cfg.OtelServiceName, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize TracerProvider: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.InitCustomMetrics(registry)

	store, err := openStore(ctx, cfg, autoMigrate)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	signingKey, err := loadSigningKey(ctx, cfg.OIDCSigningKey, appLogger)
	if err != nil {
		return err
	}

	keys := ssso.NewKeyExchange(sessions, cfg.RSAKeyBits, cfg.RSASingleUse, appLogger)
	logins := ssso.NewLoginService(store, keys, auth.NewPBKDF2Hasher(cfg.PBKDF2Iterations), sessions, appLogger)
	jwks := ssso.NewJWKSService(cfg.OIDCKeyID, signingKey)

	api := sssoecho.NewAPI(sssoecho.Services{
		Keys:         keys,
		Logins:       logins,
		Users:        ssso.NewUserService(store, logins),
		Applications: ssso.NewApplicationService(store, appLogger),
		Authorize:    ssso.NewAuthorizeService(store, appLogger),
		Tokens:       ssso.NewTokenService(store, jwks, cfg.FrontendURL, appLogger),
		UserInfo:     ssso.NewUserInfoService(store),
		JWKS:         jwks,
	}, sssoecho.Options{
		FrontendURL: cfg.FrontendURL,
		CookieName:  cfg.CookieName,
		Health:      store,
		Gatherer:    registry,
	}, appLogger)

	router := server.NewRouter(cfg, appLogger, api)
	httpServer := server.NewHTTPServer(cfg, router)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go ssso.NewJanitor(store, cfg.CodeJanitorInterval, appLogger).Run(janitorCtx)

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info(ctx, fmt.Sprintf("HTTP server listening on port %s", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		appLogger.Info(ctx, "Shutting down server", map[string]interface{}{"signal": sig.String()})
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	stopJanitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "HTTP server shutdown failed", err)
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "TracerProvider shutdown failed", err)
	}

	appLogger.Info(shutdownCtx, "Server exited")
	return nil
}
