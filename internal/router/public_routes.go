package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tourify/tourify/internal/handler"
)

// RegisterPublic registers the unauthenticated viewer endpoints. These
// routes apply no JWT middleware: visibility is decided by the tour's
// lifecycle status or its share descriptor inside the handlers. The
// optional middleware (typically the Redis response cache) is applied to
// this group only, so authoring endpoints are never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	// Published tours, addressed by id.
	g.GET("/public/tours/:id", p.GetPublicTour)
	// Any tour, addressed by its share token. The handler checks the
	// descriptor's visibility, expiry and optional password.
	g.GET("/shared/:share_id", p.GetSharedTour)
}
