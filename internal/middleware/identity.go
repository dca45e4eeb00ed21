package middleware

// identity.go holds helpers shared across middleware files. The rate
// limiter keys buckets per user where possible, so it needs a best-effort
// identity even on routes where JWTAuth has not run.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's id as a string, or "anon"
// for unauthenticated requests. JWTAuth stores the raw sub claim, which
// arrives as a float64 after JSON decoding, so any scalar is formatted.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64, int, int64, uint64:
		return fmt.Sprint(t)
	}
	return "anon"
}
