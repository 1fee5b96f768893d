package common

import (
	"github.com/chapool/go-docseal/internal/api"
	"github.com/labstack/echo/v4"
)

func GetMetricsRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/metrics", s.Metrics.Handler())
}
