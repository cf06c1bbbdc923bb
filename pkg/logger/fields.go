package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field type alias for convenience
type Field = zap.Field

// String constructs a field with the given key and value
func String(key string, val string) Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and slice of strings
func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

// Int constructs a field with the given key and value
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value
func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

// Bool constructs a field with the given key and value
func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

// Time constructs a field with the given key and value
func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

// Duration constructs a field with the given key and value
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error"
func Error(err error) Field {
	return zap.Error(err)
}

// Any constructs a field with the given key and an arbitrary value
func Any(key string, val interface{}) Field {
	return zap.Any(key, val)
}

// ByteString constructs a field with UTF-8 encoded bytes
func ByteString(key string, val []byte) Field {
	return zap.ByteString(key, val)
}

// Domain-specific field constructors

// RequestID constructs a request identifier field
func RequestID(id string) Field {
	return zap.String("request_id", id)
}

// TraceID constructs a trace identifier field
func TraceID(id string) Field {
	return zap.String("trace_id", id)
}

// SpanID constructs a span identifier field
func SpanID(id string) Field {
	return zap.String("span_id", id)
}

// Method constructs an HTTP method field
func Method(method string) Field {
	return zap.String("method", method)
}

// Path constructs an HTTP path field
func Path(path string) Field {
	return zap.String("path", path)
}

// Query constructs a query string field
func Query(query string) Field {
	return zap.String("query", query)
}

// StatusCode constructs an HTTP status code field
func StatusCode(code int) Field {
	return zap.Int("status", code)
}

// Latency constructs a request latency field
func Latency(d time.Duration) Field {
	return zap.Duration("latency", d)
}

// ClientIP constructs a client address field
func ClientIP(ip string) Field {
	return zap.String("client_ip", ip)
}

// UserAgent constructs a user agent field
func UserAgent(ua string) Field {
	return zap.String("user_agent", ua)
}

// BodySize constructs a response body size field
func BodySize(size int) Field {
	return zap.Int("body_size", size)
}

// Filename constructs a stored filename field
func Filename(name string) Field {
	return zap.String("filename", name)
}

// StorePath constructs a resolved storage path field
func StorePath(path string) Field {
	return zap.String("store_path", path)
}

// FileURL constructs a public file URL field
func FileURL(url string) Field {
	return zap.String("url", url)
}

// Provider constructs a store provider name field
func Provider(name string) Field {
	return zap.String("provider", name)
}
