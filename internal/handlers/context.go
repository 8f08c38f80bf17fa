package handlers

import "github.com/labstack/echo/v4"

// getUserIDFromContext reads the authenticated user id set by the JWT
// middleware. Returns 0 when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) int64 {
	if id, ok := c.Get("userID").(int64); ok {
		return id
	}
	return 0
}
