package handlers

import (
	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/api/handlers/chain"
	"github.com/chapool/go-docseal/internal/api/handlers/common"
	"github.com/chapool/go-docseal/internal/api/handlers/documents"
	"github.com/labstack/echo/v4"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthRoute(s),
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		documents.PostHashRoute(s),
		documents.PostSealRoute(s),
		documents.PostVerifyRoute(s),
		chain.GetTransactionRoute(s),
		chain.PostHasDocumentRoute(s),
		chain.PostSealRoute(s),
	}
}
