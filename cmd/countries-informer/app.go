package main

import (
	"context"
	"errors"
	"fmt"

	"countries-informer/configs"
	"countries-informer/internal/domain/gateway/api"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/gateway/db"
	"countries-informer/internal/domain/gateway/queue"
	"countries-informer/internal/domain/usecase/country"
	"countries-informer/internal/domain/usecase/currency"
	"countries-informer/internal/domain/usecase/health"
	"countries-informer/internal/domain/usecase/importer"
	"countries-informer/internal/domain/usecase/news"
	"countries-informer/internal/domain/usecase/weather"
	infraaws "countries-informer/internal/infra/aws"
	infracache "countries-informer/internal/infra/cache"
	"countries-informer/internal/infra/database/gorm"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/log"
	"countries-informer/pkg/redis"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	gormio "gorm.io/gorm"
)

// application holds the shared infrastructure of every command
type application struct {
	cfg        *configs.Config
	metrics    *metrics.Metrics
	namespaces *cache.Namespaces

	redisClient *redis.Client
	database    *gormio.DB
	sqsClient   *sqs.Client
	queueHealth *queue.WorkerHealthGateway

	closers []func() error
}

type useCases struct {
	weather  weather.UseCase
	currency currency.UseCase
	news     news.UseCase
	country  country.UseCase
	importer importer.UseCase
	health   health.UseCase
}

// bootstrap loads configuration and opens the cache namespaces
func bootstrap() (*application, error) {
	// a missing .env file is not an error
	_ = godotenv.Load()

	props, err := configs.LoadProperties()
	if err != nil {
		return nil, err
	}
	if err := configs.LoadMessages(); err != nil {
		return nil, err
	}
	cfg, err := configs.Load(props)
	if err != nil {
		return nil, err
	}
	log.Configure(cfg.App.Name, cfg.App.LogLevel)

	app := &application{cfg: cfg, metrics: metrics.New(), queueHealth: queue.NewWorkerHealthGateway()}

	namespaces, closeCache, err := infracache.NewNamespaces(cfg, app.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	app.namespaces = namespaces
	app.closers = append(app.closers, closeCache)
	return app, nil
}

// redis returns the client used for locks and upstream quotas, connecting on first use
func (app *application) redis() *redis.Client {
	if app.redisClient == nil {
		app.redisClient = redis.NewClient(app.cfg.Redis.ForDatabase(app.cfg.Cache.Default.Database))
		app.closers = append(app.closers, app.redisClient.Close)
	}
	return app.redisClient
}

func (app *application) openDatabase() error {
	if !app.cfg.Database.Enabled {
		return nil
	}
	database, err := gorm.Open(app.cfg.Database)
	if err != nil {
		return err
	}
	app.database = database
	app.closers = append(app.closers, func() error { return gorm.Close(database) })
	return nil
}

func (app *application) openQueue(ctx context.Context) error {
	if !app.cfg.Queue.Enabled {
		return nil
	}
	awsCfg, err := infraaws.LoadConfig(ctx, app.cfg.AWS)
	if err != nil {
		return err
	}
	app.sqsClient = infraaws.NewSqsClient(awsCfg, app.cfg.AWS.Endpoint)
	return nil
}

func (app *application) upstream(cfg configs.UpstreamConfig) api.UpstreamOptions {
	var throttle api.Throttle
	if cfg.RequestsPerMinute > 0 {
		limiter, err := redis.NewRateLimiter(app.redis(), cfg.Name, redis.NewRateLimiterOptions().
			WithMaxTransactionsPerMinute(cfg.RequestsPerMinute))
		if err != nil {
			log.Warn("upstream quota disabled", zap.String("upstream", cfg.Name), zap.Error(err))
		} else {
			throttle = limiter
		}
	}
	return api.NewUpstreamOptions(cfg, throttle, app.metrics)
}

// buildUseCases wires gateways into use cases. Optional stores stay nil when disabled.
func (app *application) buildUseCases() useCases {
	cfg := app.cfg
	singleFlight := cfg.Cache.SingleFlight

	var countryStore db.CountryGateway
	var healthStore db.HealthDBGateway
	if app.database != nil {
		countryStore = db.NewGormCountryGateway(app.database)
		healthStore = db.NewGormHealthDBGateway(app.database)
	}

	var sender queue.Sender
	var queueHealth queue.HealthGateway
	if app.sqsClient != nil {
		sender = infraaws.NewSQSSenderAdapter(app.sqsClient)
		queueHealth = app.queueHealth
	}

	return useCases{
		weather:  weather.NewWeatherUseCase(api.NewWeatherGateway(app.upstream(cfg.Upstream.Weather)), app.namespaces.Weather, singleFlight, app.metrics),
		currency: currency.NewCurrencyUseCase(api.NewCurrencyGateway(app.upstream(cfg.Upstream.Currency)), app.namespaces.Currency, singleFlight, app.metrics),
		news:     news.NewNewsUseCase(api.NewNewsGateway(app.upstream(cfg.Upstream.News)), app.namespaces.News, singleFlight, app.metrics),
		country:  country.NewCountryUseCase(api.NewCountryGateway(app.upstream(cfg.Upstream.Countries)), countryStore, app.namespaces.Default, singleFlight, app.metrics),
		importer: importer.NewImportUseCase(cfg.Queue.PlacesImport, cfg.Queue.ImportChunkSize, countryStore, sender, app.namespaces.Default, app.metrics),
		health:   health.NewHealthUseCase(healthStore, queueHealth, app.namespaces),
	}
}

// close releases resources in reverse order of acquisition
func (app *application) close() {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn("failed to release resources", zap.Error(err))
	}
	log.Sync()
}
