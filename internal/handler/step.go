package handler // per-step mutation handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tourify/tourify/internal/geometry"
	"github.com/tourify/tourify/internal/model"
)

// AttachStepMedia handles PUT /v1/tours/:tour_id/steps/:id/media. It swaps
// the step's media reference and clears every annotation on the step:
// positions recorded against the old screenshot mean nothing on the new
// one, so the whole set is dropped in the same transaction.
func (h *TourHandler) AttachStepMedia(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tourID, ok := pathID(c, "tour_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour_id"})
	}
	stepID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		URL  string `json:"url"`
		Kind string `json:"kind"` // image | video
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	url := strings.TrimSpace(body.URL)
	if url == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url is required"})
	}
	kind := strings.ToLower(strings.TrimSpace(body.Kind))
	if !model.ValidMediaKind(kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be image or video"})
	}
	if err := h.StepRepo.AttachMedia(c.Request().Context(), tourID, stepID, ownerID, url, kind); err != nil {
		return tourErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddAnnotation handles POST /v1/tours/:tour_id/steps/:id/annotations.
// Text is required; x and y are clamped into the [0,100] percentage box
// rather than rejected, matching what the drag editor produces at the
// viewport edges.
func (h *TourHandler) AddAnnotation(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tourID, ok := pathID(c, "tour_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour_id"})
	}
	stepID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body model.AnnotationInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	p := geometry.ClampPoint(geometry.Point{X: body.X, Y: body.Y})
	ann := &model.Annotation{Text: text, X: p.X, Y: p.Y}
	if err := h.StepRepo.AddAnnotation(c.Request().Context(), tourID, stepID, ownerID, ann); err != nil {
		return tourErr(c, err)
	}
	return c.JSON(http.StatusCreated, ann)
}

// RemoveAnnotation handles
// DELETE /v1/tours/:tour_id/steps/:id/annotations/:annotation_id.
// Removing an id that is already gone is a success, not an error, so the
// editor can retry deletes freely.
func (h *TourHandler) RemoveAnnotation(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tourID, ok := pathID(c, "tour_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour_id"})
	}
	stepID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	annID, ok := pathID(c, "annotation_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid annotation_id"})
	}
	if err := h.StepRepo.RemoveAnnotation(c.Request().Context(), tourID, stepID, ownerID, annID); err != nil {
		return tourErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
