package logger

import (
	"log/slog"
	"runtime"
	"strconv"
	"time"
)

// Helpers return an empty Attr for nil or empty input. slog drops empty
// attributes, so log.Info("msg", logger.Error(err)) needs no nil check.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors", keyed by their position.
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

// Error creates an "error" attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates a "duration" attribute.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Latency creates a "latency" attribute.
func Latency(d time.Duration) slog.Attr {
	return slog.Duration("latency", d)
}

// Elapsed records the time since start under "elapsed".
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// RequestID creates a "request_id" attribute.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// SessionID creates a "session_id" attribute.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

// Method creates a "method" attribute.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates a "path" attribute.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Status creates a "status" attribute for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// ClientIP creates an "ip" attribute.
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("ip", ip)
}

// UserAgent creates a "user_agent" attribute.
func UserAgent(ua string) slog.Attr {
	if ua == "" {
		return slog.Attr{}
	}
	return slog.String("user_agent", ua)
}

// BytesOut creates a "bytes_out" attribute.
func BytesOut(n int) slog.Attr {
	return slog.Int("bytes_out", n)
}

// Component creates a "component" attribute.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an "event" attribute.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Key creates an attribute with a custom key.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// Panic creates a "panic" attribute for a recovered value.
func Panic(v any) slog.Attr {
	return slog.Any("panic", v)
}

// Stack captures the current goroutine's stack trace.
func Stack() slog.Attr {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}
