package chain

import (
	"net/http"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/api/middleware"
	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/types"
	"github.com/chapool/go-docseal/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostSealRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Chain.POST("/seal", postSealHandler(s), middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: s.Config.RateLimit.RequestsPerSecond,
		Burst:             s.Config.RateLimit.Burst,
		Clock:             s.Clock,
	}))
}

// postSealHandler submits a seal through the server's wallet provider and
// waits for the ledger to confirm it.
func postSealHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostChainSealPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		payload := payloadFromBody(body)
		payload.EnsureSigner()
		if err := payload.CheckSignerLimit(); err != nil {
			return sealError(err)
		}

		result, err := s.Sealer.SubmitSeal(ctx, payload, payload.Signer)
		if err != nil {
			e := log.Warn().Err(err).Str("outcome", seal.Outcome(err))
			if result != nil {
				e = e.Str("hash", result.Hash)
			}
			e.Msg("Chain seal failed")

			return sealError(err)
		}

		response := &types.PostChainSealResponse{
			OK:     true,
			Hash:   swag.String(result.Hash),
			Status: swag.String(result.Final.Status),
			Ledger: result.Final.Ledger,
			Polls:  int64(result.Polls),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

func payloadFromBody(body types.PostChainSealPayload) seal.Payload {
	return seal.Payload{
		DocHash:        swag.StringValue(body.DocHash),
		Signature:      body.Signature,
		Signer:         swag.StringValue(body.Signer),
		DocType:        body.DocType,
		SignerType:     body.SignerType,
		VCHash:         swag.StringValue(body.VCHash),
		BusinessID:     body.BusinessID,
		StudentNameB64: body.StudentNameB64,
		AllowedSigners: body.AllowedSigners,
		MaxSigners:     swag.Int64Value(body.MaxSigners),
	}
}
