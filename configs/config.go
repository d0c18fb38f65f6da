package configs

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"
	"countries-informer/pkg/redis"
	"countries-informer/pkg/resource"

	"github.com/go-playground/validator/v10"
)

//go:embed application.yml
var DefaultProperties []byte

//go:embed messages.yml
var DefaultMessages []byte

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Upstream UpstreamsConfig
	Database DatabaseConfig
	AWS      AWSConfig
	Queue    QueueConfig
	Schedule ScheduleConfig
}

type AppConfig struct {
	Name     string `validate:"required"`
	LogLevel string
}

type ServerConfig struct {
	Port        int `validate:"min=1,max=65535"`
	ContextPath string
}

type RedisConfig struct {
	Host         string `validate:"required"`
	Port         int    `validate:"min=1,max=65535"`
	Password     string
	PoolSize     int `validate:"min=0"`
	MinIdleConns int `validate:"min=0"`
	MaxRetries   int `validate:"min=0"`
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ForDatabase builds the client configuration of one logical database.
func (r RedisConfig) ForDatabase(database int) *redis.Config {
	return redis.NewRedisConfig().
		WithHost(r.Host).
		WithPort(r.Port).
		WithPassword(r.Password).
		WithDatabase(database).
		WithPoolSize(r.PoolSize).
		WithMinIdleConns(r.MinIdleConns).
		WithMaxRetries(r.MaxRetries).
		WithTimeouts(r.DialTimeout, r.ReadTimeout, r.WriteTimeout)
}

// NamespaceConfig describes one cache partition.
type NamespaceConfig struct {
	Name     string `validate:"required"`
	Prefix   string
	Database int           `validate:"min=0,max=15"`
	TTL      time.Duration `validate:"gt=0s"`
	Codec    string        `validate:"oneof=json zstd"`
}

type CacheConfig struct {
	Backend          string `validate:"oneof=redis memcached memory"`
	SingleFlight     bool
	MemcachedServers []string `validate:"required_if=Backend memcached"`
	Default          NamespaceConfig
	Weather          NamespaceConfig
	Currency         NamespaceConfig
	News             NamespaceConfig
}

// Namespaces lists every configured namespace in a stable order.
func (c CacheConfig) Namespaces() []NamespaceConfig {
	return []NamespaceConfig{c.Default, c.Weather, c.Currency, c.News}
}

type UpstreamConfig struct {
	Name              string `validate:"required"`
	BaseURL           string `validate:"required,url"`
	APIKey            string
	Timeout           time.Duration `validate:"gt=0s"`
	MaxRetries        int           `validate:"min=0,max=10"`
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
	RequestsPerMinute int `validate:"min=0"`
}

type UpstreamsConfig struct {
	Weather   UpstreamConfig
	Currency  UpstreamConfig
	News      UpstreamConfig
	Countries UpstreamConfig
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string `validate:"required_if=Enabled true"`
	Port            int
	User            string
	Password        string
	Name            string `validate:"required_if=Enabled true"`
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type AWSConfig struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type QueueConfig struct {
	Enabled         bool
	PlacesImport    string `validate:"required_if=Enabled true"`
	Workers         int    `validate:"min=0"`
	MaxMessages     int32  `validate:"min=0,max=10"`
	WaitTimeSeconds int32  `validate:"min=0,max=20"`
	ImportChunkSize int    `validate:"min=1,max=1000"`
}

type ScheduleConfig struct {
	Enabled       bool
	LockTTL       time.Duration
	CurrencyCron  string
	CurrencyBases []string
	NewsCron      string
	NewsCountries []string
}

// LoadProperties reads the file named by PROPERTIES_FILE_PATH or falls back to the embedded application.yml.
func LoadProperties() (*resource.Properties, error) {
	if path, ok := os.LookupEnv("PROPERTIES_FILE_PATH"); ok {
		return resource.Load(path)
	}
	return resource.LoadBytes(DefaultProperties)
}

// LoadMessages reads the file named by MESSAGES_FILE_PATH or falls back to the embedded messages.yml.
func LoadMessages() error {
	if path, ok := os.LookupEnv("MESSAGES_FILE_PATH"); ok {
		return msg.Init(path)
	}
	return msg.InitBytes(DefaultMessages)
}

// Load builds and validates the application configuration.
func Load(props *resource.Properties) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     props.GetString("app.name"),
			LogLevel: props.GetString("app.log-level"),
		},
		Server: ServerConfig{
			Port:        props.GetInt("server.port"),
			ContextPath: props.GetString("server.context-path"),
		},
		Redis: RedisConfig{
			Host:         props.GetString("redis.host"),
			Port:         props.GetInt("redis.port"),
			Password:     props.GetString("redis.password"),
			PoolSize:     props.GetInt("redis.pool-size"),
			MinIdleConns: props.GetInt("redis.min-idle-conns"),
			MaxRetries:   props.GetInt("redis.max-retries"),
			DialTimeout:  props.GetDuration("redis.dial-timeout"),
			ReadTimeout:  props.GetDuration("redis.read-timeout"),
			WriteTimeout: props.GetDuration("redis.write-timeout"),
		},
		Cache: CacheConfig{
			Backend:          props.GetString("cache.backend"),
			SingleFlight:     props.GetBool("cache.single-flight"),
			MemcachedServers: props.GetStringSlice("cache.memcached.servers"),
			Default:          loadNamespace(props, "default"),
			Weather:          loadNamespace(props, "weather"),
			Currency:         loadNamespace(props, "currency"),
			News:             loadNamespace(props, "news"),
		},
		Upstream: UpstreamsConfig{
			Weather:   loadUpstream(props, "weather"),
			Currency:  loadUpstream(props, "currency"),
			News:      loadUpstream(props, "news"),
			Countries: loadUpstream(props, "countries"),
		},
		Database: DatabaseConfig{
			Enabled:         props.GetBool("database.enabled"),
			Host:            props.GetString("database.host"),
			Port:            props.GetInt("database.port"),
			User:            props.GetString("database.user"),
			Password:        props.GetString("database.password"),
			Name:            props.GetString("database.name"),
			SSLMode:         props.GetString("database.ssl-mode"),
			MaxOpenConns:    props.GetInt("database.max-open-conns"),
			MaxIdleConns:    props.GetInt("database.max-idle-conns"),
			ConnMaxLifetime: props.GetDuration("database.conn-max-lifetime"),
			AutoMigrate:     props.GetBool("database.auto-migrate"),
		},
		AWS: AWSConfig{
			Region:    props.GetString("aws.region"),
			Endpoint:  props.GetString("aws.endpoint"),
			AccessKey: props.GetString("aws.access-key"),
			SecretKey: props.GetString("aws.secret-key"),
		},
		Queue: QueueConfig{
			Enabled:         props.GetBool("queue.enabled"),
			PlacesImport:    props.GetString("queue.places-import"),
			Workers:         props.GetInt("queue.workers"),
			MaxMessages:     props.GetInt32("queue.max-messages"),
			WaitTimeSeconds: props.GetInt32("queue.wait-time-seconds"),
			ImportChunkSize: props.GetInt("queue.import-chunk-size"),
		},
		Schedule: ScheduleConfig{
			Enabled:       props.GetBool("schedule.enabled"),
			LockTTL:       props.GetDuration("schedule.lock-ttl"),
			CurrencyCron:  props.GetString("schedule.currency.cron"),
			CurrencyBases: props.GetStringSlice("schedule.currency.bases"),
			NewsCron:      props.GetString("schedule.news.cron"),
			NewsCountries: props.GetStringSlice("schedule.news.countries"),
		},
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	warnLegacyNewsTTL(cfg.Cache.News)
	return cfg, nil
}

func loadNamespace(props *resource.Properties, name string) NamespaceConfig {
	prefix := "cache." + name
	return NamespaceConfig{
		Name:     name,
		Prefix:   props.GetString(prefix + ".prefix"),
		Database: props.GetInt(prefix + ".database"),
		TTL:      props.GetSeconds(prefix + ".ttl"),
		Codec:    props.GetString(prefix + ".codec"),
	}
}

func loadUpstream(props *resource.Properties, name string) UpstreamConfig {
	prefix := "upstream." + name
	return UpstreamConfig{
		Name:              name,
		BaseURL:           props.GetString(prefix + ".base-url"),
		APIKey:            props.GetString(prefix + ".api-key"),
		Timeout:           props.GetDuration(prefix + ".timeout"),
		MaxRetries:        props.GetInt(prefix + ".max-retries"),
		InitialBackoff:    props.GetDuration(prefix + ".initial-backoff"),
		MaxBackoff:        props.GetDuration(prefix + ".max-backoff"),
		BreakerFailures:   uint32(props.GetInt(prefix + ".breaker-failures")),
		BreakerTimeout:    props.GetDuration(prefix + ".breaker-timeout"),
		RequestsPerMinute: props.GetInt(prefix + ".requests-per-minute"),
	}
}

// Deployments that only set CACHE_TTL_WEATHER used to get it applied to news as well.
func warnLegacyNewsTTL(news NamespaceConfig) {
	_, newsSet := os.LookupEnv("CACHE_TTL_NEWS")
	_, weatherSet := os.LookupEnv("CACHE_TTL_WEATHER")
	if weatherSet && !newsSet {
		log.Warn(msg.GetMessage("config.legacy-news-ttl", int64(news.TTL.Seconds())))
	}
}
