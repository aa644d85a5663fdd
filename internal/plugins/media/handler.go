package media

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
	"github.com/keyxmakerx/stockroom/internal/middleware"
	"github.com/keyxmakerx/stockroom/internal/plugins/auth"
)

// Handler handles HTTP requests for image uploads.
type Handler struct {
	service MediaService
}

// NewHandler creates a new media handler.
func NewHandler(service MediaService) *Handler {
	return &Handler{service: service}
}

// Upload stores a single image from the "image" multipart field (POST /upload).
func (h *Handler) Upload(c echo.Context) error {
	userID := auth.GetUserID(c)
	if userID == "" {
		return apperror.NewMissingContext()
	}

	file, err := c.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.NewPayloadTooLarge(msgFileTooLarge)
		}
		return apperror.NewBadRequest(msgNoFile)
	}

	mimeType := file.Header.Get(echo.HeaderContentType)
	if !AllowedMimeTypes[mimeType] {
		return apperror.NewBadRequest(msgNotAnImage)
	}
	if file.Size > h.service.MaxSize() {
		return apperror.NewBadRequest(msgFileTooLarge)
	}

	src, err := file.Open()
	if err != nil {
		return apperror.NewInternal(err)
	}
	defer src.Close()

	// Read one byte past the limit so an understated part size is caught.
	fileBytes, err := io.ReadAll(io.LimitReader(src, h.service.MaxSize()+1))
	if err != nil {
		return apperror.NewInternal(err)
	}

	upload, err := h.service.Upload(c.Request().Context(), UploadInput{
		UploadedBy:   userID,
		OriginalName: file.Filename,
		MimeType:     mimeType,
		FileBytes:    fileBytes,
	})
	if err != nil {
		return err
	}

	return middleware.Success(c, http.StatusOK, "Image uploaded successfully", UploadResponse{
		ID:           upload.ID,
		Fieldname:    formField,
		Originalname: upload.OriginalName,
		Mimetype:     upload.MimeType,
		Destination:  h.service.Destination(),
		Filename:     upload.Filename,
		Path:         upload.Location,
		Size:         upload.FileSize,
	})
}
