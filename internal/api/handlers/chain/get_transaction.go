package chain

import (
	"net/http"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/labstack/echo/v4"
)

func GetTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Chain.GET("/tx/:hash", getTransactionHandler(s))
}

func getTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		tx, err := s.Sealer.TransactionStatus(c.Request().Context(), c.Param("hash"))
		if err != nil {
			return sealError(err)
		}

		return c.JSON(http.StatusOK, tx)
	}
}
