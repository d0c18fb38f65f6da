package middleware

import (
	"net/http"
	"strings"

	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

var quietPaths = []string{"/health", "/metrics", "/swagger/"}

// SetupRequestLogger registers the request id and request logging middlewares.
func SetupRequestLogger(e *echo.Echo) {
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		Skipper:      isQuietPath,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error == nil && v.Status < 500 {
				log.Info(msg.GetMessage("app.req-end", v.Method, v.URI, v.Status, v.Latency.String(), v.RequestID), fields...)
				return nil
			}
			cause := http.StatusText(v.Status)
			if v.Error != nil {
				cause = v.Error.Error()
				fields = append(fields, zap.Error(v.Error))
			}
			log.Error(msg.GetMessage("app.req-fail", v.Method, v.URI, v.Status, v.Latency.String(), v.RequestID, cause), fields...)
			return nil
		},
	}))
}

// Probes and docs are polled too often to be worth a line each.
func isQuietPath(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, quiet := range quietPaths {
		if strings.Contains(path, quiet) {
			return true
		}
	}
	return false
}
