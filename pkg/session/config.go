package session

import "time"

// Config holds session configuration
type Config struct {
	// SessionTimeout is the inactivity gap after which a new session starts
	SessionTimeout time.Duration `env:"SENZOR_SESSION_TIMEOUT" envDefault:"30m"`

	// KeyPrefix is prepended to every storage key (default: "senzor_")
	KeyPrefix string `env:"SENZOR_KEY_PREFIX" envDefault:"senzor_"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		SessionTimeout: 30 * time.Minute,
		KeyPrefix:      "senzor_",
	}
}
