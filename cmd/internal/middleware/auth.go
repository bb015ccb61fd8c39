package middleware

import (
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

// RequireToken verifies the bearer token and stores its claims under the
// "token" context key for the route handlers.
func RequireToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, err := utils.ParseTokenDataCtx(c, secret)
			if err != nil {
				return c.JSON(401, apierror.InvalidAuthTokenError)
			}
			c.Set("token", data)
			return next(c)
		}
	}
}
