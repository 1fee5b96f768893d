package chain

import (
	"net/http"

	"github.com/chapool/go-docseal/internal/api/httperrors"
	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/types"
	"github.com/pkg/errors"
)

// sealError maps a failed workflow stage to the public error. The message
// keeps the stage's diagnostics verbatim.
func sealError(err error) *httperrors.HTTPError {
	code := http.StatusBadGateway
	errType := types.PublicHTTPErrorTypeSEALFAILED

	switch {
	case errors.Is(err, seal.ErrWalletUnavailable):
		code = http.StatusServiceUnavailable
		errType = types.PublicHTTPErrorTypeWALLETUNAVAILABLE
	case errors.Is(err, seal.ErrSDKUnavailable):
		code = http.StatusServiceUnavailable
		errType = types.PublicHTTPErrorTypeLEDGERUNAVAILABLE
	case errors.Is(err, seal.ErrMalformedInput):
		code = http.StatusBadRequest
		errType = types.PublicHTTPErrorTypeGeneric
	case errors.Is(err, seal.ErrTransactionTimeout):
		code = http.StatusGatewayTimeout
	}

	return httperrors.NewHTTPErrorWithDetail(code, errType, err.Error(), err)
}
