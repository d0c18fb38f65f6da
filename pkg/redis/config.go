package redis

import (
	"fmt"
	"time"
)

// Config represents the connection to one logical Redis database
type Config struct {
	// Host is the Redis server host
	Host string
	// Port is the Redis server port
	Port int
	// Password is the Redis server password
	Password string
	// Database is the Redis database number, one per cache namespace
	Database int
	// MinIdleConns is the minimum number of idle connections
	MinIdleConns int
	// PoolSize is the maximum number of socket connections
	PoolSize int
	// MaxRetries is the maximum number of retries for failed commands
	MaxRetries int
	// DialTimeout is the timeout for establishing connections
	DialTimeout time.Duration
	// ReadTimeout is the timeout for socket reads
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for socket writes
	WriteTimeout time.Duration
	// PoolTimeout is the timeout for getting connection from pool
	PoolTimeout time.Duration
}

// NewRedisConfig creates a new Redis configuration with default values
func NewRedisConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         6379,
		Database:     0,
		MinIdleConns: 2,
		PoolSize:     20,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// WithHost sets the Redis server host
func (c *Config) WithHost(host string) *Config {
	c.Host = host
	return c
}

// WithPort sets the Redis server port
func (c *Config) WithPort(port int) *Config {
	if port < 1 || port > 65535 {
		panic(fmt.Sprintf("invalid port: %d, must be between 1 and 65535", port))
	}
	c.Port = port
	return c
}

// WithPassword sets the Redis server password
func (c *Config) WithPassword(password string) *Config {
	c.Password = password
	return c
}

// WithDatabase sets the Redis database number
func (c *Config) WithDatabase(database int) *Config {
	if database < 0 || database > 15 {
		panic(fmt.Sprintf("invalid database: %d, must be between 0 and 15", database))
	}
	c.Database = database
	return c
}

// WithMinIdleConns sets the minimum number of idle connections
func (c *Config) WithMinIdleConns(minIdleConns int) *Config {
	if minIdleConns < 0 {
		panic(fmt.Sprintf("invalid min idle connections: %d, must be non-negative", minIdleConns))
	}
	c.MinIdleConns = minIdleConns
	return c
}

// WithPoolSize sets the maximum number of socket connections
func (c *Config) WithPoolSize(poolSize int) *Config {
	if poolSize < 0 {
		panic(fmt.Sprintf("invalid pool size: %d, must be non-negative", poolSize))
	}
	c.PoolSize = poolSize
	return c
}

// WithMaxRetries sets the maximum number of retries for failed commands
func (c *Config) WithMaxRetries(maxRetries int) *Config {
	if maxRetries < 0 {
		panic(fmt.Sprintf("invalid max retries: %d, must be non-negative", maxRetries))
	}
	c.MaxRetries = maxRetries
	return c
}

// WithTimeouts sets dial, read and write timeouts. Zero values keep the current ones.
func (c *Config) WithTimeouts(dial, read, write time.Duration) *Config {
	if dial < 0 || read < 0 || write < 0 {
		panic(fmt.Sprintf("invalid timeouts: %v/%v/%v, must be non-negative", dial, read, write))
	}
	if dial > 0 {
		c.DialTimeout = dial
	}
	if read > 0 {
		c.ReadTimeout = read
	}
	if write > 0 {
		c.WriteTimeout = write
	}
	return c
}

// Addr returns host:port
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1 and 65535", c.Port)
	}
	if c.Database < 0 || c.Database > 15 {
		return fmt.Errorf("invalid database: %d, must be between 0 and 15", c.Database)
	}
	if c.MinIdleConns < 0 {
		return fmt.Errorf("invalid min idle connections: %d, must be non-negative", c.MinIdleConns)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("invalid pool size: %d, must be non-negative", c.PoolSize)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid max retries: %d, must be non-negative", c.MaxRetries)
	}
	return nil
}
