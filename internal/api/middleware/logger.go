package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/chapool/go-docseal/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LoggerConfig struct {
	Skipper          middleware.Skipper
	Level            zerolog.Level
	LogRequestHeader bool
	LogRequestQuery  bool
}

var DefaultLoggerConfig = LoggerConfig{
	Skipper: middleware.DefaultSkipper,
	Level:   zerolog.DebugLevel,
}

func Logger() echo.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig stores a request scoped logger carrying the request id in
// the request context and logs every finished request at config.Level.
// Requests answered with 5xx are logged as errors, 4xx as warnings.
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			l := log.With().Str("id", id).Logger()

			ctx := l.WithContext(req.Context())
			ctx = context.WithValue(ctx, util.CTXKeyRequestID, id)
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			var e *zerolog.Event
			switch {
			case res.Status >= http.StatusInternalServerError:
				e = l.Error().Err(err)
			case res.Status >= http.StatusBadRequest:
				e = l.Warn().Err(err)
			default:
				e = l.WithLevel(config.Level)
			}

			e = e.
				Str("method", req.Method).
				Str("url", req.URL.Path).
				Str("ip", c.RealIP()).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("duration_ms", elapsed)

			if config.LogRequestQuery {
				e = e.Str("query", req.URL.RawQuery)
			}

			if config.LogRequestHeader {
				h := zerolog.Dict()
				for k := range req.Header {
					if k == echo.HeaderAuthorization || k == "X-Api-Key" {
						continue
					}
					h = h.Str(k, req.Header.Get(k))
				}
				e = e.Dict("header", h)
			}

			e.Msg("http_request")

			// already handled by c.Error above
			return nil
		}
	}
}
