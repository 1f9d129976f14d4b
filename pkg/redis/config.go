package redis

import "time"

// Config describes the connection and key layout of a Redis-backed scope.
type Config struct {
	// ConnectionURL in the form "redis://:password@localhost:6379/0".
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`

	// KeyPrefix is prepended to every key, before the namespace.
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"senzor"`

	// TTL expires idle devices; zero keeps keys forever like localStorage.
	TTL time.Duration `env:"REDIS_KEY_TTL" envDefault:"0s"`

	ScanBatchSize int64 `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"100"`
}

// DefaultConfig returns the configuration used when fields are left empty.
func DefaultConfig() Config {
	return Config{
		ConnectionURL:  "redis://localhost:6379/0",
		RetryAttempts:  3,
		RetryInterval:  time.Second,
		ConnectTimeout: 10 * time.Second,
		KeyPrefix:      "senzor",
		ScanBatchSize:  100,
	}
}
