package apperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPErrorHandler translates domain errors into JSON responses. It is
// installed as the echo error handler so every route shares one mapping.
// Unknown errors (including echo's own HTTPError) collapse into the
// internal kind: clients only ever see taxonomy messages, while the real
// cause is logged with the request id.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	rid := c.Response().Header().Get(echo.HeaderXRequestID)
	if rid == "" {
		rid = c.Request().Header.Get(echo.HeaderXRequestID)
	}

	var ae *Error
	if !errors.As(err, &ae) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			// Echo-internal errors (404, 405, bind failures) keep their
			// status but get a taxonomy-shaped body.
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok {
				msg = s
			}
			ae = &Error{Code: CodeValidationFailed, Message: msg, HTTPCode: he.Code}
			if he.Code >= http.StatusInternalServerError {
				ae.Code = CodeInternal
			}
		} else {
			ae = Internal(err)
		}
	}

	if ae.HTTPCode >= http.StatusInternalServerError {
		log.Printf("request %s failed: %v", rid, ae)
	} else if ae.Err != nil {
		// Client-class errors with an internal cause (e.g. provider-side
		// OAuth failures) are still worth a trace.
		log.Printf("request %s rejected: %v", rid, ae)
	}

	body := echo.Map{"error": ae.Message, "request_id": rid}
	if err := c.JSON(ae.HTTPCode, body); err != nil {
		log.Printf("request %s: writing error response failed: %v", rid, err)
	}
}

// RequestID returns the correlation-id middleware used by both the error
// handler above and the request logger. Kept here so main wires one import.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestID()
}
