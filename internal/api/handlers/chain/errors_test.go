package chain

import (
	"net/http"
	"testing"

	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/types"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSealErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		errType  types.PublicHTTPErrorType
		contains string
	}{
		{"wallet unavailable", errors.Wrap(seal.ErrWalletUnavailable, "dial tcp"), http.StatusServiceUnavailable, types.PublicHTTPErrorTypeWALLETUNAVAILABLE, "dial tcp"},
		{"wallet refused", errors.Wrap(seal.ErrSigningFailed, "user declined"), http.StatusBadGateway, types.PublicHTTPErrorTypeSEALFAILED, "user declined"},
		{"ledger unavailable", seal.ErrSDKUnavailable, http.StatusServiceUnavailable, types.PublicHTTPErrorTypeLEDGERUNAVAILABLE, "unavailable"},
		{"malformed", errors.Wrap(seal.ErrMalformedInput, "max_signers (1) cannot be less than allowed signers (2)"), http.StatusBadRequest, "", "max_signers (1)"},
		{"timeout", seal.ErrTransactionTimeout, http.StatusGatewayTimeout, types.PublicHTTPErrorTypeSEALFAILED, "timed out"},
		{"send failed", seal.ErrSendFailed, http.StatusBadGateway, types.PublicHTTPErrorTypeSEALFAILED, "send failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := sealError(tt.err)
			assert.Equal(t, tt.code, he.Code)
			assert.Equal(t, tt.errType, he.Type)
			assert.Contains(t, swag.StringValue(he.PublicHTTPError.Error), tt.contains)
			assert.ErrorIs(t, he.Internal, tt.err)
		})
	}
}
