package controllers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/buahsegar/storefront-backend/api/responses"
	"github.com/buahsegar/storefront-backend/pkg/config"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
	"github.com/buahsegar/storefront-backend/pkg/logger"
	"github.com/buahsegar/storefront-backend/pkg/storage/cloudinary"
)

type imageUploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*cloudinary.UploadResult, error)
}

// AdminUpload pushes a product image to the image CDN and returns its URL.
func AdminUpload(uploader imageUploader, cfg config.CloudinaryConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		maxBytes := int64(cfg.MaxUploadMB) << 20
		if maxBytes <= 0 {
			maxBytes = 5 << 20
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file too large or malformed upload"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "file field is required").
					WithDetails(map[string]string{"file": "attach the image as multipart field \"file\""}))
			return
		}
		defer file.Close()

		if !allowedImageName(header.Filename) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
					WithDetails(map[string]string{"file": "must be a .jpg, .jpeg, .png, or .webp image"}))
			return
		}

		result, err := uploader.Upload(r.Context(), header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func allowedImageName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
