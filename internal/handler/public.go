// Public viewer handlers. These routes carry no authentication: one serves
// published tours by id, the other serves tours through their share token.
// Responses are built from sanitized types so owner ids and share internals
// never leak to anonymous viewers.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tourify/tourify/internal/model"
	"github.com/tourify/tourify/internal/repository"
	"github.com/tourify/tourify/internal/utils"
)

// shorthand for the one message every negative lookup answers with; the
// viewer cannot tell a missing tour from an unpublished or expired one.
const publicNotFound = "tour not found"

// PublicHandler aggregates the repositories needed for anonymous viewing.
type PublicHandler struct {
	TourRepo  *repository.TourRepo
	ShareRepo *repository.ShareRepo
}

// PublicTour is the tour document exposed to anonymous viewers. Steps keep
// their full shape; tour metadata is reduced to safe fields.
type PublicTour struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Steps       []model.Step `json:"steps"`
}

func toPublicTour(t *model.Tour) PublicTour {
	return PublicTour{ID: t.ID, Title: t.Title, Description: t.Description, Steps: t.Steps}
}

// GetPublicTour handles GET /v1/public/tours/:id. The sole gate is the
// tour's lifecycle status: published tours are served to anyone, draft and
// private tours answer exactly like tours that do not exist. The share
// descriptor plays no part on this path.
func (h *PublicHandler) GetPublicTour(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.TourRepo.GetPublished(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTourNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": publicNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toPublicTour(t))
}

// GetSharedTour handles GET /v1/shared/:share_id. The descriptor must
// exist, be public and not be expired; a disabled, expired or unknown token
// all produce the same 404. When the owner set an access password the
// request must carry the plaintext in the X-Share-Password header, answered
// with 401 on mismatch so viewers can prompt for it. This path works
// independently of the tour's lifecycle status.
func (h *PublicHandler) GetSharedTour(c echo.Context) error {
	shareID := c.Param("share_id")
	if len(shareID) != 32 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": publicNotFound})
	}
	ctx := c.Request().Context()
	d, err := h.ShareRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": publicNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !d.IsPublic || d.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": publicNotFound})
	}
	if d.PasswordHash != nil {
		supplied := c.Request().Header.Get("X-Share-Password")
		if supplied == "" || !utils.VerifyPassword(*d.PasswordHash, supplied) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password required"})
		}
	}
	t, err := h.TourRepo.GetByID(ctx, d.TourID)
	if err != nil {
		if errors.Is(err, repository.ErrTourNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": publicNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toPublicTour(t))
}
