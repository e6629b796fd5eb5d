package middleware

// identity.go provides the user identifier used by the rate limiter and
// cache key strategies. It reads the user_id value that JWTAuth stored
// in the Echo context; unauthenticated requests are keyed as "guest".

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the request context. JWT
// numeric claims decode as float64, so the value is normalized through
// fmt.Sprint.
func userID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.0f", n)
	case string:
		if n != "" {
			return n
		}
	default:
		return fmt.Sprint(n)
	}
	return "guest"
}
