package edutrack

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// parseID parses a numeric path parameter. A non-numeric id can never match
// a row, so callers treat a parse failure the same as an absent row.
func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// serverError logs the failure with detail and returns the generic message;
// internal error detail never reaches the client.
func serverError(c echo.Context, log *logger.Logger, msg string, err error) error {
	_ = log.Error(msg, err)
	return c.String(http.StatusInternalServerError, "Server error.")
}
