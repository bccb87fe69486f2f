package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request with the correlation id assigned
// by the request-id middleware, so log lines and error bodies can be joined
// on the same id.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			rid := res.Header().Get(echo.HeaderXRequestID)
			log.Printf("%s %s -> %d (%s) rid=%s",
				req.Method, req.RequestURI, res.Status,
				time.Since(start).Round(time.Millisecond), rid)
			return nil
		}
	}
}
