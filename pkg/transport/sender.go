package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/dmitrymomot/senzor/pkg/async"
	"github.com/dmitrymomot/senzor/pkg/event"
	"github.com/dmitrymomot/senzor/pkg/logger"
)

const contentType = "application/json"

// Sender delivers payloads to one endpoint.
// Zero value is not usable; use NewSender to create instances.
type Sender struct {
	endpoint   string
	beacon     Beacon
	client     *http.Client
	config     Config
	breaker    *gobreaker.CircuitBreaker[DeliveryResult]
	onDelivery DeliveryHook
	log        *slog.Logger

	tasks async.Group
}

// NewSender creates a sender for endpoint. beacon may be nil when the
// platform has none; every payload then goes through the fallback tier.
func NewSender(endpoint string, beacon Beacon, opts ...Option) (*Sender, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	s := &Sender{
		endpoint: endpoint,
		beacon:   beacon,
		config:   DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.config.GracePeriod <= 0 {
		s.config.GracePeriod = DefaultConfig().GracePeriod
	}
	if s.config.BreakerThreshold == 0 {
		s.config.BreakerThreshold = DefaultConfig().BreakerThreshold
	}
	if s.client == nil {
		s.client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	s.log = logger.OrDiscard(s.log).With(logger.Component("transport"), logger.Endpoint(endpoint))
	s.breaker = s.newBreaker()

	return s, nil
}

func (s *Sender) newBreaker() *gobreaker.CircuitBreaker[DeliveryResult] {
	threshold := s.config.BreakerThreshold
	return gobreaker.NewCircuitBreaker[DeliveryResult](gobreaker.Settings{
		Name:        "senzor-ingest",
		MaxRequests: 1,
		Timeout:     s.config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			s.log.Info("fallback circuit state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

// Endpoint returns the ingestion URL.
func (s *Sender) Endpoint() string {
	return s.endpoint
}

// Send hands p to the beacon or, failing that, starts a fallback request.
// It never blocks on the network and never reports an error; failures are
// logged and the payload is dropped.
func (s *Sender) Send(ctx context.Context, p event.Payload) {
	body, err := json.Marshal(p)
	if err != nil {
		s.log.ErrorContext(ctx, "payload dropped",
			logger.EventType(string(p.Type)),
			logger.Error(errors.Join(ErrEncodingFailed, err)),
		)
		return
	}

	if s.beacon != nil && s.beacon.SendBeacon(s.endpoint, contentType, body) {
		return
	}

	s.fallback(ctx, p.Type, body)
}

// Wait blocks until in-flight fallback requests finish or ctx is done.
func (s *Sender) Wait(ctx context.Context) error {
	return s.tasks.Wait(ctx)
}

func (s *Sender) fallback(ctx context.Context, t event.Type, body []byte) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.GracePeriod)

	s.tasks.Go(reqCtx, func(ctx context.Context) error {
		result, err := s.breaker.Execute(func() (DeliveryResult, error) {
			return s.attemptDelivery(ctx, body)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result.Error = errors.Join(ErrCircuitOpen, err)
			err = result.Error
		}
		if s.onDelivery != nil {
			s.onDelivery(result)
		}
		return err
	}, func(err error) {
		defer cancel()
		if err != nil {
			s.log.WarnContext(ctx, "fallback delivery failed",
				logger.EventType(string(t)),
				logger.Error(err),
			)
		}
	})
}

// attemptDelivery makes a single POST with timing and error capture.
func (s *Sender) attemptDelivery(ctx context.Context, body []byte) (DeliveryResult, error) {
	start := time.Now()
	result := DeliveryResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = err
		return result, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		return result, result.Error
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if result.Success {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024*64))
		return result, nil
	}

	// Short, single-line excerpt for the log record.
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	msg := strings.ReplaceAll(strings.TrimSpace(string(excerpt)), "\n", " ")
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	result.Error = fmt.Errorf("%w: endpoint returned status %d %s", ErrDeliveryFailed, resp.StatusCode, msg)
	return result, result.Error
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidEndpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidEndpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidEndpoint)
	}
	return nil
}
