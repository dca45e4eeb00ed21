package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/tourify/tourify/internal/repository" // repository holds the data access layer
	"github.com/tourify/tourify/internal/storage"    // storage issues presigned media URLs
)

// TourHandler bundles the repositories behind every owner-scoped endpoint:
// tour CRUD, per-step mutations, sharing and media upload URLs.
type TourHandler struct {
	TourRepo   *repository.TourRepo  // tour aggregate persistence
	StepRepo   *repository.StepRepo  // per-step media/annotation persistence
	ShareRepo  *repository.ShareRepo // share descriptor persistence
	Media      *storage.MediaStore   // nil when object storage is not configured
	BcryptCost int                   // cost for hashing share passwords
}

// NewTourHandler constructs a TourHandler and panics if a repository is
// missing. Media may be nil; the upload endpoint then answers 503.
func NewTourHandler(tourRepo *repository.TourRepo, stepRepo *repository.StepRepo, shareRepo *repository.ShareRepo, media *storage.MediaStore, bcryptCost int) *TourHandler {
	if tourRepo == nil || stepRepo == nil || shareRepo == nil {
		panic("nil repository passed to NewTourHandler")
	}
	return &TourHandler{
		TourRepo:   tourRepo,
		StepRepo:   stepRepo,
		ShareRepo:  shareRepo,
		Media:      media,
		BcryptCost: bcryptCost,
	}
}

// getUserID extracts the user_id stored by the JWT middleware and converts
// it to uint64. JSON decoding turns the numeric sub claim into a float64,
// so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter; zero is rejected along with
// non-numeric input.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
