package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/haatos/simple-ci-metrics/internal"
	"github.com/haatos/simple-ci-metrics/internal/handler"
	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/haatos/simple-ci-metrics/internal/settings"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the build history API and Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, settings.Settings)
		},
	}
}

func serve(ctx context.Context, s *settings.AppSettings) error {
	config, err := internal.InitializeConfiguration(s.ConfigPath)
	if err != nil {
		return err
	}

	a, err := openApp(s)
	if err != nil {
		return err
	}
	defer a.Close()

	scheduler, err := service.NewScheduler(a.clock)
	if err != nil {
		return err
	}
	runService := service.NewRunService(a.jobStore, a.runStore, scheduler, a.clock)
	if err := runService.ScheduleRetention(config.RetentionSchedule); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			slog.Error("scheduler: shutdown", "err", err)
		}
	}()

	go func() {
		err := internal.WatchConfiguration(ctx, s.ConfigPath, func(c *internal.Configuration) {
			if err := runService.ScheduleRetention(c.RetentionSchedule); err != nil {
				slog.Error("config: rescheduling retention", "err", err)
			}
		})
		if err != nil {
			slog.Error("config: watch stopped", "err", err)
		}
	}()

	e := newServer(a.jobService, a.metricsService, a.apiKeyService, slog.Default())
	slog.Info("server: starting", "port", s.Port, "driver", s.DBDriver)
	return internal.GracefulShutdown(ctx, e, s.Port)
}

func newServer(
	jobService service.JobServicer,
	metricsService service.MetricsServicer,
	apiKeyService service.APIKeyServicer,
	logger *slog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(
		middleware.RequestID(),
		middleware.RequestLoggerWithConfig(handler.RequestLoggerConfig(logger)),
		middleware.Recover(),
		middleware.CORSWithConfig(internal.GetCORSConfig()),
		middleware.RateLimiterWithConfig(internal.GetRateLimiterConfig()),
	)

	g := e.Group("")
	handler.SetupJobRoutes(g, jobService, apiKeyService)
	handler.SetupMetricsRoutes(g, metricsService)
	handler.SetupAPIKeyRoutes(g, apiKeyService)
	return e
}
