package transport

import "errors"

var (
	ErrInvalidEndpoint = errors.New("transport: invalid endpoint")
	ErrDeliveryFailed  = errors.New("transport: delivery failed")
	ErrCircuitOpen     = errors.New("transport: circuit breaker is open")
	ErrEncodingFailed  = errors.New("transport: payload encoding failed")
)

// IsCircuitOpen checks if an error indicates the circuit breaker is open
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
