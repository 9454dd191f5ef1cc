package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haatos/simple-ci-metrics/internal"
	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// producerKey holds the producer of the authenticated API key in the echo
// context.
const producerKey = "producer"

// APIKeyMiddleware only lets through requests carrying a known API key in
// the webhook key header. Producers use it to push build history; the
// producer the key belongs to is logged with the request.
func APIKeyMiddleware(apiKeyService service.APIKeyServicer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(internal.WebhookTriggerKeyHeader)
			if key == "" {
				return newError(c, nil, http.StatusUnauthorized, "missing api key")
			}
			ak, err := apiKeyService.Authenticate(c.Request().Context(), key)
			if errors.Is(err, service.ErrInvalidAPIKey) {
				return newError(c, nil, http.StatusUnauthorized, "invalid api key")
			}
			if err != nil {
				return newError(c, err, http.StatusInternalServerError, "unable to check api key")
			}
			c.Set(producerKey, ak.Producer)
			return next(c)
		}
	}
}

func RequestLoggerConfig(logger *slog.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.RequestID != "" {
				attrs = append(attrs, slog.String("request_id", v.RequestID))
			}
			if producer, ok := c.Get(producerKey).(string); ok {
				attrs = append(attrs, slog.String("producer", producer))
			}
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}
}
