package httperrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/chapool/go-docseal/internal/types"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// HTTPError is an error rendered as the public error body. Internal is
// logged but never sent to the client.
type HTTPError struct {
	types.PublicHTTPError
	Code     int   `json:"-"`
	Internal error `json:"-"`
}

func NewHTTPError(code int, errorType types.PublicHTTPErrorType, msg string) *HTTPError {
	e := &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			OK:    false,
			Error: swag.String(msg),
		},
		Code: code,
	}

	if errorType != types.PublicHTTPErrorTypeGeneric {
		e.Type = errorType
	}

	return e
}

func NewHTTPErrorWithDetail(code int, errorType types.PublicHTTPErrorType, msg string, internal error) *HTTPError {
	e := NewHTTPError(code, errorType, msg)
	e.Internal = internal
	return e
}

func NewHTTPValidationError(code int, errorType types.PublicHTTPErrorType, msg string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPError {
	e := NewHTTPError(code, errorType, msg)
	e.ValidationErrors = validationErrors
	return e
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPError %d: %s", e.Code, swag.StringValue(e.PublicHTTPError.Error))
	if e.Type != "" {
		fmt.Fprintf(&b, " (%s)", e.Type)
	}

	for _, v := range e.ValidationErrors {
		fmt.Fprintf(&b, " - %s [%s]: %s", swag.StringValue(v.Key), swag.StringValue(v.In), swag.StringValue(v.Error))
	}

	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// HTTPErrorHandler renders every error returned by a handler as the public
// error body.
func HTTPErrorHandler(err error, c echo.Context) {
	var he *HTTPError
	var ee *echo.HTTPError

	switch {
	case errors.As(err, &he):
	case errors.As(err, &ee):
		he = NewHTTPError(ee.Code, types.PublicHTTPErrorTypeGeneric, messageOf(ee))
		he.Internal = ee.Internal
	default:
		he = NewHTTPErrorWithDetail(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError), err)
	}

	l := log.Ctx(c.Request().Context())
	if he.Code >= http.StatusInternalServerError {
		l.Error().Err(err).Int("status", he.Code).Msg("Request failed")
	} else {
		l.Debug().Err(err).Int("status", he.Code).Msg("Request rejected")
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, he)
	}

	if err != nil {
		l.Warn().Err(err).Msg("Failed to write error response")
	}
}

func messageOf(ee *echo.HTTPError) string {
	if msg, ok := ee.Message.(string); ok {
		return msg
	}
	return http.StatusText(ee.Code)
}
