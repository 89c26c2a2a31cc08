package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "task-tracker.com/task-tracker/internal/errors"
)

const accountIDKey = "accountID"

// TokenParser resolves a bearer token to an account id.
type TokenParser func(token string) (string, error)

// BearerAuth rejects requests without a valid "Authorization: Bearer" token and stores
// the token's account id on the context.
func BearerAuth(parse TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return echo.NewHTTPError(apperrors.ErrInvalidToken.StatusCode, apperrors.ErrInvalidToken.Message)
			}

			accountID, err := parse(strings.TrimSpace(token))
			if err != nil {
				return echo.NewHTTPError(apperrors.StatusCode(err), apperrors.Message(err))
			}

			c.Set(accountIDKey, accountID)
			return next(c)
		}
	}
}

// AccountID returns the account id stored by BearerAuth, or "".
func AccountID(c echo.Context) string {
	id, _ := c.Get(accountIDKey).(string)
	return id
}
