package documents

import (
	"net/http"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/api/httperrors"
	"github.com/chapool/go-docseal/internal/registry"
	"github.com/chapool/go-docseal/internal/types"
	"github.com/chapool/go-docseal/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type postSealResponse struct {
	OK bool `json:"ok"`
	*registry.SealResult
}

func PostSealRoute(s *api.Server) *echo.Route {
	return s.Router.Root.POST("/seal", postSealHandler(s))
}

func postSealHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		body := bindLenient[registry.SealRequest](c)

		result, err := s.Registry.Seal(body)
		if err != nil {
			log.Debug().Err(err).Str("doc_hash", body.DocHash).Msg("Rejected seal")
			return ruleError(err)
		}

		s.Metrics.SetRegistrySize(s.Registry.Stats())

		log.Info().
			Str("doc_hash", result.DocHash).
			Str("signer", result.Record.Signer).
			Int("total_records", result.TotalRecords).
			Msg("Sealed document")

		return c.JSON(http.StatusOK, postSealResponse{OK: true, SealResult: result})
	}
}

// bindLenient decodes the JSON body. A missing or malformed body yields the
// zero value, the rule checks then report what is missing.
func bindLenient[T any](c echo.Context) T {
	var v T
	if err := (&echo.DefaultBinder{}).BindBody(c, &v); err != nil {
		util.LogFromEchoContext(c).Debug().Err(err).Msg("Ignoring undecodable request body")
		var zero T
		return zero
	}
	return v
}

func ruleError(err error) error {
	var re *registry.RuleError
	if !errors.As(err, &re) {
		return err
	}

	errType := types.PublicHTTPErrorTypeGeneric
	if re.Status == http.StatusForbidden {
		errType = types.PublicHTTPErrorTypeFORBIDDENSIGNER
	}

	return httperrors.NewHTTPError(re.Status, errType, re.Message)
}
