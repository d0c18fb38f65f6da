package http

import (
	"net/url"
	"strings"

	"countries-informer/pkg/log"

	"go.uber.org/zap"
)

const redacted = "***"

// HTTPLogger receives the lifecycle events of a request. Latencies are milliseconds.
type HTTPLogger interface {
	LogRequest(method, url string, headers map[string]string, body string)
	LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64)
	LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error)
	// LogRequestRetry is called before a retry attempt when a backoff is configured
	LogRequestRetry(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error, retryCount, maxRetries int)
}

var _ HTTPLogger = (*ZapLogger)(nil)

// ZapLogger writes HTTP client events through the application logger with credentials masked.
type ZapLogger struct {
	name string
}

// NewZapLogger creates an HTTPLogger tagged with the upstream name
func NewZapLogger(name string) *ZapLogger {
	return &ZapLogger{name: name}
}

func (l *ZapLogger) LogRequest(method, url string, headers map[string]string, body string) {
	log.Debug("outbound request",
		zap.String("upstream", l.name),
		zap.String("method", method),
		zap.String("url", MaskURL(url)),
		zap.Any("headers", MaskHeaders(headers)))
}

func (l *ZapLogger) LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64) {
	log.Info("outbound response",
		zap.String("upstream", l.name),
		zap.String("method", method),
		zap.String("url", MaskURL(url)),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency))
}

func (l *ZapLogger) LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error) {
	log.Warn("outbound response error",
		zap.String("upstream", l.name),
		zap.String("method", method),
		zap.String("url", MaskURL(url)),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.String("response", truncate(responseBody, 512)),
		zap.Error(err))
}

func (l *ZapLogger) LogRequestRetry(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error, retryCount, maxRetries int) {
	log.Warn("outbound request retry",
		zap.String("upstream", l.name),
		zap.String("method", method),
		zap.String("url", MaskURL(url)),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.Int("retry", retryCount),
		zap.Int("max_retries", maxRetries),
		zap.Error(err))
}

// MaskURL hides credential query parameters.
func MaskURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	for key := range query {
		if isSecret(key) {
			query.Set(key, redacted)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// MaskHeaders returns a copy of headers with credential values hidden.
func MaskHeaders(headers map[string]string) map[string]string {
	masked := make(map[string]string, len(headers))
	for key, value := range headers {
		if isSecret(key) {
			value = redacted
		}
		masked[key] = value
	}
	return masked
}

func isSecret(key string) bool {
	key = strings.ToLower(key)
	return key == "appid" || key == "authorization" || strings.Contains(key, "key") || strings.Contains(key, "token")
}

func truncate(value string, size int) string {
	if len(value) <= size {
		return value
	}
	return value[:size] + "..."
}
