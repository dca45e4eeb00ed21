package handler // media upload URL handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tourify/tourify/internal/model"
)

// extensions accepted per media kind. The upload itself goes straight to
// object storage; this only controls what keys we presign.
var mediaExts = map[string]map[string]bool{
	model.MediaImage: {".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true},
	model.MediaVideo: {".mp4": true, ".webm": true, ".mov": true},
}

// CreateUploadURL handles POST /v1/media/upload-url. It returns a presigned
// PUT URL for a fresh object key plus the public URL the media will be
// readable at once uploaded. The client then attaches that public URL to a
// step. Answers 503 when object storage is not configured.
func (h *TourHandler) CreateUploadURL(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Media == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "media storage not configured"})
	}
	var body struct {
		Kind string `json:"kind"` // image | video
		Ext  string `json:"ext"`  // file extension including the dot
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	kind := strings.ToLower(strings.TrimSpace(body.Kind))
	if !model.ValidMediaKind(kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be image or video"})
	}
	ext := strings.ToLower(strings.TrimSpace(body.Ext))
	if !mediaExts[kind][ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported extension for kind"})
	}

	key, uploadURL, publicURL, err := h.Media.PresignedPutURL(c.Request().Context(), ext)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not presign upload"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"key":        key,
		"upload_url": uploadURL,
		"public_url": publicURL,
		"kind":       kind,
	})
}

// CreateDownloadURL handles POST /v1/media/download-url. For buckets that
// are not world-readable the editor trades an object key for a short-lived
// presigned GET URL. Only keys under the tours/ prefix are served; this
// endpoint must not become a generic bucket browser.
func (h *TourHandler) CreateDownloadURL(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Media == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "media storage not configured"})
	}
	var body struct {
		Key string `json:"key"` // object key returned by upload-url
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	key := strings.TrimSpace(body.Key)
	if !strings.HasPrefix(key, "tours/") || strings.Contains(key, "..") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid key"})
	}
	url, err := h.Media.PresignedGetURL(c.Request().Context(), key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not presign download"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"key":          key,
		"download_url": url,
	})
}
