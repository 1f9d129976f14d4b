package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors".
// Returns an empty Attr if every error is nil.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error", or returns an empty Attr for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func WebID(id string) slog.Attr {
	return slog.String("web_id", id)
}

func VisitorID(id string) slog.Attr {
	return slog.String("visitor_id", id)
}

func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

// EventType records the payload type ("pageview" or "ping").
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

func Endpoint(url string) slog.Attr {
	return slog.String("endpoint", url)
}

// StorageKey records the physical storage key involved in a failure.
func StorageKey(key string) slog.Attr {
	return slog.String("storage_key", key)
}

func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// State records a lifecycle state name.
func State(name string) slog.Attr {
	return slog.String("state", name)
}
