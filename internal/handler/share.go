package handler // share descriptor handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tourify/tourify/internal/model"
	"github.com/tourify/tourify/internal/utils"
)

// shareResp is what owners see of a descriptor. The password hash never
// leaves the server; has_password tells the editor whether one is set.
type shareResp struct {
	ShareID     string     `json:"share_id"`
	IsPublic    bool       `json:"is_public"`
	HasPassword bool       `json:"has_password"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func toShareResp(d *model.ShareDescriptor) shareResp {
	return shareResp{
		ShareID:     d.ShareID,
		IsPublic:    d.IsPublic,
		HasPassword: d.PasswordHash != nil,
		ExpiresAt:   d.ExpiresAt,
	}
}

// GetOrCreateShare handles GET /v1/tours/:id/share. The first call mints a
// random 32-char hex token with is_public=false; every later call returns
// the same token unchanged.
func (h *TourHandler) GetOrCreateShare(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// Ownership gate lives on the tour, not the descriptor.
	if _, err := h.TourRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		return tourErr(c, err)
	}
	d, err := h.ShareRepo.GetOrCreate(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toShareResp(d))
}

// UpdateShare handles PUT /v1/tours/:id/share. It sets visibility and,
// optionally, an access password and expiry for the token viewer path. A
// non-empty password is bcrypt-hashed before storage; an omitted or empty
// password clears any stored hash. The token itself never changes.
func (h *TourHandler) UpdateShare(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		IsPublic  bool       `json:"is_public"`
		Password  string     `json:"password"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, err := h.TourRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		return tourErr(c, err)
	}

	var passwordHash *string
	if pw := strings.TrimSpace(body.Password); pw != "" {
		hash, err := utils.HashPassword(pw, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
		}
		passwordHash = &hash
	}

	d, err := h.ShareRepo.Upsert(c.Request().Context(), id, body.IsPublic, passwordHash, body.ExpiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toShareResp(d))
}
