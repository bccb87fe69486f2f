package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness for load balancers and monitoring. It answers
// before any middleware that could fail, so a broken Redis or database
// never makes the process look dead.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
