package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/domain"
)

// maxImageSize caps uploads at 5 MiB.
const maxImageSize = 5 << 20

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

var allowedImageFolders = map[string]struct{}{
	"profile":  {},
	"news":     {},
	"sponsors": {},
	"general":  {},
}

// ImageController handles image uploads to object storage.
type ImageController struct {
	Logger   *slog.Logger
	Uploader domain.ImageUploader
}

// NewImageController creates an ImageController with the given logger and uploader.
func NewImageController(logger *slog.Logger, uploader domain.ImageUploader) *ImageController {
	return &ImageController{
		Logger:   logger,
		Uploader: uploader,
	}
}

// Upload godoc
// @Summary Upload an image
// @Description Upload an image (multipart field "file", max 5 MiB, jpeg/png/webp/gif) and get back its public URL. Optional form field "folder": profile, news, sponsors, or general (default). Requires Bearer token.
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Param folder formData string false "Target folder"
// @Success 201 {object} helpers.APIResponse "data contains the uploaded image url and key"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images [post]
func (c *ImageController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unsupported image type")
		return
	}

	folder := strings.ToLower(strings.TrimSpace(r.FormValue("folder")))
	if folder == "" {
		folder = "general"
	}
	if _, ok := allowedImageFolders[folder]; !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unsupported folder")
		return
	}

	img, err := c.Uploader.Upload(r.Context(), folder, header.Filename, contentType, file)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "image upload failed", "folder", folder, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "image upload failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, img)
}
