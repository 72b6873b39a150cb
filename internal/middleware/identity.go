package middleware

import "github.com/labstack/echo/v4"

// Context keys filled in by JWTAuth.
const (
	ctxSubject = "subject"
	ctxRole    = "role"
)

// Subject returns the authenticated token subject, or "anon" for requests
// that did not pass through JWTAuth.
func Subject(c echo.Context) string {
	if s, ok := c.Get(ctxSubject).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Role returns the role claim of the authenticated token, or "".
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}
