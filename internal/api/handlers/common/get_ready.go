package common

import (
	"context"
	"net/http"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/soroban/rpc"
	"github.com/chapool/go-docseal/internal/util"
	"github.com/labstack/echo/v4"
)

// StatusNotReady is the (non-standard) status answered while the server
// cannot serve ledger requests.
const StatusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness is the first healthy RPC node on the configured network
// running at least SOROBAN_MIN_RPC_VERSION.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		if !s.Ready() {
			log.Warn().Msg("Readiness probe failed, server is not fully initialized")
			return c.String(StatusNotReady, "Not ready.")
		}

		if s.Config.Management.ReadinessTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.Config.Management.ReadinessTimeout)
			defer cancel()
		}

		client, err := s.Loader.Client(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Readiness probe failed, no ledger client")
			return c.String(StatusNotReady, "Not ready.")
		}

		if _, err := rpc.CheckVersion(ctx, client, s.Config.Soroban.MinRPCVersion); err != nil {
			log.Warn().Err(err).Str("url", client.URL()).Msg("Readiness probe failed, RPC node version check")
			return c.String(StatusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
