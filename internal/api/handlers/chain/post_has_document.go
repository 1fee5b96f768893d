package chain

import (
	"net/http"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/types"
	"github.com/chapool/go-docseal/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostHasDocumentRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Chain.POST("/has-document", postHasDocumentHandler(s))
}

func postHasDocumentHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostChainHasDocumentPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		exists := s.Sealer.HasDocument(ctx, swag.StringValue(body.DocHash), swag.StringValue(body.Account))

		return util.ValidateAndReturn(c, http.StatusOK, &types.PostChainHasDocumentResponse{
			OK:     true,
			Exists: exists,
		})
	}
}
