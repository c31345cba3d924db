package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dashboardpkg "github.com/goliatone/go-erp-dashboard/pkg/dashboard"
)

type serveCmd struct {
	Transport   string `default:"router" enum:"router,http" help:"router mounts on go-router (Fiber); http uses net/http with SSE."`
	Addr        string `help:"Listen address; defaults to the configured host and port."`
	MetricsAddr string `name:"metrics-addr" default:":9090" help:"Metrics listener used by the router transport."`
}

func (cmd *serveCmd) Run(ctx context.Context, rt *runtime) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := rt.app(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := cmd.Addr
	if addr == "" {
		addr = rt.cfg.HTTP.Addr()
	}
	metricsHandler := promhttp.HandlerFor(app.Prometheus, promhttp.HandlerOpts{})
	log := rt.log.Named("serve")

	if cmd.Transport == "http" {
		srv := &http.Server{Addr: addr, Handler: app.Handler(metricsHandler), ReadHeaderTimeout: 10 * time.Second}
		log.Info().Str("addr", addr).Str("base", rt.cfg.HTTP.BasePath).Msg("serving net/http transport")
		return serveUntilDone(ctx, srv.ListenAndServe, srv.Shutdown)
	}

	var server router.Server[*fiber.App] = router.NewFiberAdapter()
	if err := dashboardpkg.Mount(app, server.Router()); err != nil {
		return fmt.Errorf("erpctl: register routes: %w", err)
	}
	if rt.cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(rt.cfg.Metrics.Path, metricsHandler)
		metrics := &http.Server{Addr: cmd.MetricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
		defer metrics.Close()
		log.Info().Str("addr", cmd.MetricsAddr).Str("path", rt.cfg.Metrics.Path).Msg("serving metrics")
	}
	log.Info().Str("addr", addr).Str("base", rt.cfg.HTTP.BasePath).Msg("serving go-router transport")
	return serveUntilDone(ctx, func() error { return server.Serve(addr) }, server.Shutdown)
}

func serveUntilDone(ctx context.Context, serve func() error, shutdown func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() { errCh <- serve() }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdown(shutdownCtx)
	}
}
