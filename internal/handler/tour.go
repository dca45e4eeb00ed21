package handler // owner-scoped tour document handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tourify/tourify/internal/model"
	"github.com/tourify/tourify/internal/queue"
	"github.com/tourify/tourify/internal/repository"
	queue_publisher "github.com/tourify/tourify/internal/service"
)

// tourReq is the JSON body accepted by create and full-replace. Steps are
// ordered by their position in the array; the server assigns step_order.
type tourReq struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      string            `json:"status"`
	Steps       []model.StepInput `json:"steps"`
}

// statusReq is the JSON body for the status patch endpoint.
type statusReq struct {
	Status string `json:"status"`
}

// CreateTour handles POST /v1/tours. Title is required; steps and
// annotations are optional and inserted in the same transaction as the
// tour itself. Status defaults to draft when unspecified.
func (h *TourHandler) CreateTour(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body tourReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title, err := model.NormalizeTitle(body.Title)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	status := body.Status
	if status == "" {
		status = model.StatusDraft
	}
	if !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	steps, err := model.SanitizeSteps(body.Steps)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	tour := &model.Tour{
		OwnerID:     ownerID,
		Title:       title,
		Description: body.Description,
		Status:      status,
		Steps:       steps,
	}
	if err := h.TourRepo.Create(c.Request().Context(), tour); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create tour"})
	}
	// Re-fetch so the response carries child IDs and annotations exactly as
	// stored.
	created, err := h.TourRepo.GetByIDAndOwner(c.Request().Context(), tour.ID, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, created)
}

// GetTour handles GET /v1/tours/:id and returns the owner's full tour
// document, steps ordered by step_order ascending.
func (h *TourHandler) GetTour(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	tour, err := h.TourRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return tourErr(c, err)
	}
	return c.JSON(http.StatusOK, tour)
}

// ListTours handles GET /v1/tours and returns every tour owned by the
// authenticated user, with nested steps and annotations.
func (h *TourHandler) ListTours(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.TourRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ReplaceTour handles PUT /v1/tours/:id. This is a destructive full
// replace: every stored step and annotation is dropped and the supplied
// list is inserted fresh with sequential step_order starting at 0. There is
// no per-step diffing and no version check; concurrent replaces are
// last-writer-wins. An omitted status leaves the stored status untouched.
func (h *TourHandler) ReplaceTour(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body tourReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title, err := model.NormalizeTitle(body.Title)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	status := body.Status
	if status == "" {
		// An omitted status keeps the stored one; a replace without the
		// field must not silently unpublish a published tour.
		current, err := h.TourRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
		if err != nil {
			return tourErr(c, err)
		}
		status = current.Status
	}
	if !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	steps, err := model.SanitizeSteps(body.Steps)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	tour := &model.Tour{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		Description: body.Description,
		Status:      status,
		Steps:       steps,
	}
	if err := h.TourRepo.Replace(c.Request().Context(), tour); err != nil {
		return tourErr(c, err)
	}
	updated, err := h.TourRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateTourStatus handles PATCH /v1/tours/:id/status. All transitions
// between draft, published and private are legal. A transition to
// published emits a tour.published event; publish failures are logged by
// the publisher and ignored here.
func (h *TourHandler) UpdateTourStatus(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body statusReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.TrimSpace(body.Status)
	if !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if err := h.TourRepo.UpdateStatus(c.Request().Context(), id, ownerID, status); err != nil {
		return tourErr(c, err)
	}
	updated, err := h.TourRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if status == model.StatusPublished {
		ev := queue.TourPublishedEvent{
			TourID:      updated.ID,
			OwnerID:     ownerID,
			Title:       updated.Title,
			StepCount:   len(updated.Steps),
			PublishedAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue_publisher.PublishTourPublished(ctx, ev) // best effort
		}()
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteTour handles DELETE /v1/tours/:id. The delete is hard and
// cascading: steps, annotations and the share descriptor go with the tour.
func (h *TourHandler) DeleteTour(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.TourRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		return tourErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// tourErr maps repository sentinels onto HTTP responses: missing tour to
// 404, foreign tour to 403, anything else to a generic 500.
func tourErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	case errors.Is(err, repository.ErrStepNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "step not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
