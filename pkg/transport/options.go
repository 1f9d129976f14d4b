package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// DeliveryResult describes one fallback request.
type DeliveryResult struct {
	Success    bool
	StatusCode int
	Duration   time.Duration
	Error      error
}

// DeliveryHook is called after each fallback request.
type DeliveryHook func(result DeliveryResult)

// Option configures a Sender.
type Option func(*Sender)

// WithConfig replaces the fallback settings.
func WithConfig(cfg Config) Option {
	return func(s *Sender) {
		s.config = cfg
	}
}

// WithGracePeriod bounds each fallback request.
// Default is 10 seconds.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Sender) {
		if d > 0 {
			s.config.GracePeriod = d
		}
	}
}

// WithHTTPClient sets the client used for fallback requests.
// Useful for custom transports, proxies, or testing.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Sender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithOnDelivery registers a hook observing fallback results.
func WithOnDelivery(hook DeliveryHook) Option {
	return func(s *Sender) {
		s.onDelivery = hook
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sender) {
		s.log = log
	}
}
