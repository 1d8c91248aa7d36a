package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/varcodes/trackmyprices/api/openapi"
	"github.com/varcodes/trackmyprices/internal/api/handlers"
	mw "github.com/varcodes/trackmyprices/internal/api/middleware"
	"github.com/varcodes/trackmyprices/internal/config"
	"github.com/varcodes/trackmyprices/internal/engine"
	"github.com/varcodes/trackmyprices/internal/metrics"
	"github.com/varcodes/trackmyprices/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and scheduler",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(migrate)
		},
	}
	c.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before serving")
	return c
}

func runServe(migrate bool) error {
	cfg, log, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetryConfig(cfg))
	if err != nil {
		return err
	}

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(log)

	if migrate {
		if err := a.store.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations complete")
	}

	if n, err := a.store.CountProducts(ctx); err == nil {
		metrics.ProductsTracked.Set(float64(n))
	}

	var sched *engine.Scheduler
	if cfg.Cycle.ScheduleEnabled {
		sched, err = engine.NewScheduler(a.engine, cfg.Cycle.Interval, log)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
		log.Info("in-process cycle schedule enabled", "interval", cfg.Cycle.Interval)
	}

	e := newServer(cfg, a, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "version", Version)

	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if sched != nil {
		select {
		case <-sched.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn("scheduled cycle still running at shutdown")
		}
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down server: %w", err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down telemetry: %w", err))
	}

	log.Info("server stopped")
	return errors.Join(errs...)
}

func newServer(cfg *config.Config, a *app, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(mw.Recovery(log))
	e.Use(mw.RequestLog(log))
	e.Use(mw.Metrics())

	api := humaecho.New(e, huma.DefaultConfig("TrackMyPrices API", Version))

	handlers.RegisterHealthRoutes(api, handlers.NewHealthHandler(a.store))
	handlers.RegisterCycleRoutes(api, handlers.NewCycleHandler(a.engine, a.engine, cfg.Server.TriggerToken))
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(a.engine))

	openapi.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

func telemetryConfig(cfg *config.Config) telemetry.Config {
	return telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
	}
}
