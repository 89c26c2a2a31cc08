package http

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "task-tracker.com/task-tracker/internal/errors"
)

// httpError turns an application error into an echo error with its status and a
// user-facing message. Anything unexpected is logged and reported as a 500.
func httpError(c echo.Context, err error) error {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(status, apperrors.Message(err))
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(apperrors.ErrInvalidJSON.StatusCode, apperrors.ErrInvalidJSON.Message)
	}
	return nil
}
