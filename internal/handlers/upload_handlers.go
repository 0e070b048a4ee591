package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"tivastore/internal/common"
	"tivastore/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UploadHandlers struct {
	uploadService *services.UploadService
}

func NewUploadHandlers(uploadService *services.UploadService) *UploadHandlers {
	return &UploadHandlers{uploadService: uploadService}
}

func (h *UploadHandlers) uploadOne(c echo.Context, storeID uuid.UUID, header *multipart.FileHeader) (*services.UploadedFile, error) {
	file, err := header.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded file")
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	return h.uploadService.Upload(c.Request().Context(), storeID, header.Filename, contentType, file, header.Size)
}

func (h *UploadHandlers) Upload(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "File is required")
	}
	uploaded, err := h.uploadOne(c, storeID, header)
	if err != nil {
		return err
	}
	return common.Created(c, "File uploaded", uploaded)
}

func (h *UploadHandlers) UploadMultiple(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one file is required")
	}
	if len(files) > services.MaxUploadBatch {
		return echo.NewHTTPError(http.StatusBadRequest, "At most 10 files per request")
	}

	// Each file succeeds or fails on its own; one bad file never aborts
	// the batch.
	uploaded := make([]*services.UploadedFile, 0, len(files))
	failures := make([]uploadFailure, 0)
	for _, header := range files {
		file, err := h.uploadOne(c, storeID, header)
		if err != nil {
			failures = append(failures, uploadFailure{
				File:  header.Filename,
				Error: uploadFailureMessage(err),
			})
			continue
		}
		uploaded = append(uploaded, file)
	}
	return common.OKMessage(c, fmt.Sprintf("%d file(s) uploaded", len(uploaded)), map[string]interface{}{
		"uploaded":       uploaded,
		"errors":         failures,
		"total_uploaded": len(uploaded),
		"total_errors":   len(failures),
	})
}

type uploadFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// uploadFailureMessage surfaces validation messages per file; anything else
// collapses to a generic processing error.
func uploadFailureMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
	}
	return "Could not process file"
}

func (h *UploadHandlers) GetURL(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	key := c.Param("*")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "File key is required")
	}
	url, err := h.uploadService.URL(c.Request().Context(), storeID, key)
	if err != nil {
		return err
	}
	return common.OK(c, map[string]string{"key": key, "url": url})
}

func (h *UploadHandlers) Delete(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	key := c.Param("*")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "File key is required")
	}
	if err := h.uploadService.Delete(c.Request().Context(), storeID, key); err != nil {
		return err
	}
	return common.OKMessage(c, "File deleted", nil)
}

func (h *UploadHandlers) List(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	keys, err := h.uploadService.List(c.Request().Context(), storeID)
	if err != nil {
		return err
	}
	return common.OK(c, keys)
}
