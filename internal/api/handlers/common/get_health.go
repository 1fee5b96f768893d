package common

import (
	"net/http"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/labstack/echo/v4"
)

func GetHealthRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/health", getHealthHandler(s))
}

// getHealthHandler answers as long as the process serves requests, it never
// touches the ledger.
func getHealthHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
