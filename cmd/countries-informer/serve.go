package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "countries-informer/docs"
	"countries-informer/internal/application/controller"
	"countries-informer/internal/application/middleware"
	"countries-informer/internal/application/schedule"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var withWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the warm-up schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, withWorker)
		},
	}
	cmd.Flags().BoolVar(&withWorker, "with-worker", false, "also consume the places import queue in this process")
	return cmd
}

func serve(ctx context.Context, withWorker bool) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.openDatabase(); err != nil {
		return err
	}
	if err := app.openQueue(ctx); err != nil {
		return err
	}
	useCases := app.buildUseCases()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(app.metrics.Middleware())
	middleware.SetupRequestLogger(e)
	e.GET("/metrics", echo.WrapHandler(app.metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(app.cfg.Server.ContextPath)
	controller.NewHealthController(api, useCases.health).InitHealthRoutes()
	controller.NewWeatherController(api, useCases.weather).InitWeatherRoutes()
	controller.NewCurrencyController(api, useCases.currency).InitCurrencyRoutes()
	controller.NewNewsController(api, useCases.news).InitNewsRoutes()
	controller.NewCountryController(api, useCases.country).InitCountryRoutes()
	controller.NewPlacesController(api, useCases.importer).InitPlacesRoutes()
	controller.NewCacheController(api, app.namespaces).InitCacheRoutes()

	if app.cfg.Schedule.Enabled {
		if err := startSchedules(ctx, app, useCases); err != nil {
			return err
		}
	}

	workerDone := make(chan struct{})
	if withWorker && app.sqsClient != nil {
		go func() {
			defer close(workerDone)
			if err := runImportWorker(ctx, app, useCases); err != nil {
				log.Error("places import worker stopped", zap.Error(err))
			}
		}()
	} else {
		close(workerDone)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info(msg.GetMessage("app.start", app.cfg.App.Name, app.cfg.Server.Port))
		serverErr <- e.Start(":" + strconv.Itoa(app.cfg.Server.Port))
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	log.Info(msg.GetMessage("app.shutdown", app.cfg.App.Name))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-workerDone
	return nil
}

func startSchedules(ctx context.Context, app *application, useCases useCases) error {
	cfg := app.cfg.Schedule

	currencyScheduler := schedule.NewCurrencyScheduler(useCases.currency, app.redis(), app.metrics, schedule.CurrencySchedulerConfig{
		CronExpression: cfg.CurrencyCron,
		LockTTL:        cfg.LockTTL,
		Bases:          cfg.CurrencyBases,
	})
	if err := currencyScheduler.InitCurrencyScheduleTasks(ctx); err != nil {
		return err
	}

	newsScheduler, err := schedule.NewNewsScheduler(useCases.news, app.redis(), app.metrics, schedule.NewsSchedulerConfig{
		CronExpression: cfg.NewsCron,
		LockTTL:        cfg.LockTTL,
		Countries:      cfg.NewsCountries,
	})
	if err != nil {
		return err
	}
	return newsScheduler.InitNewsScheduleTasks(ctx)
}
