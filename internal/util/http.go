package util

import (
	"context"
	"net/http"

	"github.com/chapool/go-docseal/internal/api/httperrors"
	"github.com/chapool/go-docseal/internal/types"
	oerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BindAndValidateBody binds the request body to v and validates it against
// its schema. Schema violations are returned as HTTP validation errors.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return errors.New("unsupported echo binder")
	}

	if err := binder.BindBody(c, v); err != nil {
		return err
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates a response payload before sending it. An
// invalid response is a server bug and answered with 500.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response did not match schema")
		return echo.ErrInternalServerError
	}

	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	err := v.Validate(strfmt.Default)
	if err == nil {
		return nil
	}

	var composite *oerrors.CompositeError
	if errors.As(err, &composite) {
		LogFromEchoContext(c).Debug().Errs("validation_errors", composite.Errors).Msg("Payload did not match schema")
		return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric,
			firstMessage(c.Request().Context(), composite), formatValidationErrors(c.Request().Context(), composite))
	}

	var validation *oerrors.Validation
	if errors.As(err, &validation) {
		details := []*types.HTTPValidationErrorDetail{validationDetail(validation)}
		return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, validation.Error(), details)
	}

	LogFromEchoContext(c).Error().Err(err).Msg("Failed to validate payload")
	return err
}

func formatValidationErrors(ctx context.Context, err *oerrors.CompositeError) []*types.HTTPValidationErrorDetail {
	details := make([]*types.HTTPValidationErrorDetail, 0, len(err.Errors))

	for _, e := range err.Errors {
		var validation *oerrors.Validation
		if errors.As(e, &validation) {
			details = append(details, validationDetail(validation))
			continue
		}

		var composite *oerrors.CompositeError
		if errors.As(e, &composite) {
			details = append(details, formatValidationErrors(ctx, composite)...)
			continue
		}

		LogFromContext(ctx).Warn().Err(e).Str("err_type", typeName(e)).Msg("Received unknown error type while validating payload, skipping")
	}

	return details
}

func firstMessage(ctx context.Context, err *oerrors.CompositeError) string {
	if details := formatValidationErrors(ctx, err); len(details) > 0 {
		return swag.StringValue(details[0].Error)
	}
	return http.StatusText(http.StatusBadRequest)
}

func validationDetail(v *oerrors.Validation) *types.HTTPValidationErrorDetail {
	return &types.HTTPValidationErrorDetail{
		Key:   swag.String(v.Name),
		In:    swag.String(v.In),
		Error: swag.String(v.Error()),
	}
}
