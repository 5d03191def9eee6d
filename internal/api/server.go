package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/vanshdigitals/edutrack/internal/api/validator"
)

// NewEcho builds an echo instance with the middleware stack and error
// handling shared by both services.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Validator = validator.New()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit("1M"))

	return e
}

// HTTPErrorHandler renders errors in the wire format callers already depend
// on: validation failures as a 400 with an itemized `errors` list, string
// messages as plain text, anything unrecognized as a generic 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		_ = c.JSON(http.StatusBadRequest, map[string]interface{}{
			"errors": ve.Violations(),
		})
		return
	}

	code := http.StatusInternalServerError
	message := "Server error."

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.String(code, message)
}
