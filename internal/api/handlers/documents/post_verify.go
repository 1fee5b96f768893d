package documents

import (
	"net/http"
	"strings"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/api/httperrors"
	"github.com/chapool/go-docseal/internal/registry"
	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/types"
	"github.com/labstack/echo/v4"
)

const (
	VerifyModeDocument = "doc_verify"
	VerifyModeRecords  = "records"
	VerifyModeMetadata = "metadata"
	VerifyModeSigner   = "signer"
	VerifyModeVC       = "vc"
)

type postVerifyPayload struct {
	Mode    string `json:"mode"`
	DocHash string `json:"doc_hash"`
	Signer  string `json:"signer"`
	VCHash  string `json:"vc_hash"`
	VCText  string `json:"vc_text"`
}

type postVerifyRecordsResponse struct {
	OK      bool              `json:"ok"`
	Records []registry.Record `json:"records"`
}

type postVerifyMetadataResponse struct {
	OK       bool               `json:"ok"`
	Metadata *registry.Metadata `json:"metadata"`
}

func PostVerifyRoute(s *api.Server) *echo.Route {
	return s.Router.Root.POST("/verify", postVerifyHandler(s))
}

func postVerifyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := bindLenient[postVerifyPayload](c)

		docHash := strings.TrimSpace(body.DocHash)

		switch body.Mode {
		case VerifyModeDocument:
			if docHash == "" {
				return required("doc_hash")
			}
			if err := registry.ValidateHash(docHash, "doc_hash"); err != nil {
				return ruleError(err)
			}

			records := s.Registry.Records(docHash)
			if len(records) == 0 {
				return httperrors.ErrNotFoundDocument
			}
			return records200(c, records)

		case VerifyModeRecords:
			if docHash == "" {
				return required("doc_hash")
			}
			return records200(c, s.Registry.Records(docHash))

		case VerifyModeMetadata:
			if docHash == "" {
				return required("doc_hash")
			}
			return c.JSON(http.StatusOK, postVerifyMetadataResponse{OK: true, Metadata: s.Registry.Metadata(docHash)})

		case VerifyModeSigner:
			signer := strings.TrimSpace(body.Signer)
			if signer == "" {
				return required("signer")
			}
			return records200(c, s.Registry.BySigner(signer))

		case VerifyModeVC:
			vcHash := strings.TrimSpace(body.VCHash)
			if vcHash == "" && body.VCText != "" {
				vcHash = seal.DigestText(body.VCText)
			}
			if vcHash == "" {
				return required("vc_hash")
			}
			return records200(c, s.Registry.ByVCHash(vcHash))

		default:
			return httperrors.ErrBadRequestInvalidMode
		}
	}
}

func records200(c echo.Context, records []registry.Record) error {
	return c.JSON(http.StatusOK, postVerifyRecordsResponse{OK: true, Records: records})
}

func required(field string) error {
	return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, field+" required")
}
