package httperrors

import (
	"net/http"

	"github.com/chapool/go-docseal/internal/types"
)

var (
	ErrBadRequestZeroFileSize   = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeZEROFILESIZE, "File size of 0 is not supported.")
	ErrBadRequestInvalidMode    = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDMODE, "invalid mode")
	ErrBadRequestMissingFile    = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "file is required")
	ErrNotFoundDocument         = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeNOTFOUND, "No records found for this doc_hash")
	ErrTooManyRequests          = NewHTTPError(http.StatusTooManyRequests, types.PublicHTTPErrorTypeRATELIMITED, "rate limit exceeded")
	ErrServiceUnavailableWallet = NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeWALLETUNAVAILABLE, "no wallet provider configured")
)
