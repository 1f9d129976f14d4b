package transport

import "time"

// DefaultEndpoint is the hosted ingestion URL.
const DefaultEndpoint = "https://api.senzor.dev/api/ingest/web"

// Config holds fallback delivery settings.
type Config struct {
	// GracePeriod bounds a fallback request, measured from the Send call.
	GracePeriod time.Duration `env:"SENZOR_GRACE_PERIOD" envDefault:"10s"`

	// BreakerThreshold is the number of consecutive fallback failures that
	// opens the circuit.
	BreakerThreshold uint32 `env:"SENZOR_BREAKER_THRESHOLD" envDefault:"5"`

	// BreakerCooldown is how long the circuit stays open before a probe.
	BreakerCooldown time.Duration `env:"SENZOR_BREAKER_COOLDOWN" envDefault:"30s"`
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		GracePeriod:      10 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}
