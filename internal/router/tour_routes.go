package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/tourify/tourify/internal/handler"
	"github.com/tourify/tourify/internal/middleware"
)

// RegisterTours registers the authoring endpoints under /v1. All routes
// require a valid JWT; ownership of the targeted tour is enforced inside
// the repositories.
func RegisterTours(e *echo.Echo, t *handler.TourHandler, jwtSecret string) {
	// Attach the middleware at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
	)

	// ---- Tours ----
	g.POST("/tours", t.CreateTour)
	g.GET("/tours", t.ListTours)
	g.GET("/tours/:id", t.GetTour)
	// PUT replaces the whole tour document including its step list; the
	// lifecycle status has its own endpoint so the editor can publish
	// without resending the body.
	g.PUT("/tours/:id", t.ReplaceTour)
	g.PATCH("/tours/:id/status", t.UpdateTourStatus)
	g.DELETE("/tours/:id", t.DeleteTour)

	// ---- Steps ----
	g.PUT("/tours/:tour_id/steps/:id/media", t.AttachStepMedia)
	g.POST("/tours/:tour_id/steps/:id/annotations", t.AddAnnotation)
	g.DELETE("/tours/:tour_id/steps/:id/annotations/:annotation_id", t.RemoveAnnotation)

	// ---- Sharing ----
	// GET mints the descriptor on first use and returns it unchanged after.
	g.GET("/tours/:id/share", t.GetOrCreateShare)
	g.PUT("/tours/:id/share", t.UpdateShare)

	// ---- Media ----
	g.POST("/media/upload-url", t.CreateUploadURL)
	g.POST("/media/download-url", t.CreateDownloadURL)
}
