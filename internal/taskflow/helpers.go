package taskflow

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func serverError(c echo.Context, log *logger.Logger, msg string, err error) error {
	_ = log.Error(msg, err)
	return c.String(http.StatusInternalServerError, "Server error.")
}
