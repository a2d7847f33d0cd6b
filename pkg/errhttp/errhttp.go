// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to StatusFor for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/orderserver/pkg/httpx"
	"github.com/ghuser/orderserver/pkg/logger"
	"github.com/ghuser/orderserver/pkg/telemetry"
	itemdomain "github.com/ghuser/orderserver/services/item/domain"
	orderdomain "github.com/ghuser/orderserver/services/order/domain"
)

// Writer turns service errors into JSON error responses. Unexpected errors
// are logged, reported to Sentry and, in production, answered without detail.
type Writer struct {
	log        logger.Logger
	production bool
}

// New returns a Writer.
func New(log logger.Logger, production bool) *Writer {
	return &Writer{log: log, production: production}
}

// Write maps err to a status code and writes {"error": ...}.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
func (e *Writer) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		e.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		telemetry.CaptureError(r.Context(), err)
	}
	httpx.JSONError(w, status, httpx.SafeError(err, status, e.production))
}

// StatusFor returns the HTTP status for err. Unrecognized errors are 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrItemAlreadyExists),
		errors.Is(err, itemdomain.ErrInvalidItem),
		errors.Is(err, orderdomain.ErrInvalidItemReference),
		errors.Is(err, orderdomain.ErrInvalidOrder),
		errors.Is(err, httpx.ErrBadParam):
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}
