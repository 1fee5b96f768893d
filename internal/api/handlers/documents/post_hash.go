package documents

import (
	"io"
	"net/http"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/api/httperrors"
	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/types"
	"github.com/chapool/go-docseal/internal/util"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostHashRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/hash", postHashHandler(s))
}

// postHashHandler returns the document hash of an uploaded file, the value
// a seal is made for.
func postHashHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		fh, err := c.FormFile("file")
		if err != nil {
			log.Debug().Err(err).Msg("No file in upload")
			return httperrors.ErrBadRequestMissingFile
		}

		if fh.Size == 0 {
			return httperrors.ErrBadRequestZeroFileSize
		}

		file, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "failed to open uploaded file")
		}
		defer file.Close()

		mime, err := mimetype.DetectReader(file)
		if err != nil {
			return errors.Wrap(err, "failed to detect mime type")
		}

		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return errors.Wrap(err, "failed to rewind uploaded file")
		}

		docHash, err := seal.DigestReader(file)
		if err != nil {
			return errors.Wrap(err, "failed to hash uploaded file")
		}

		log.Debug().Str("doc_hash", docHash).Str("mime_type", mime.String()).Int64("size", fh.Size).Msg("Hashed upload")

		return util.ValidateAndReturn(c, http.StatusOK, &types.PostHashResponse{
			OK:       true,
			DocHash:  swag.String(docHash),
			MimeType: swag.String(mime.String()),
			Size:     swag.Int64(fh.Size),
		})
	}
}
