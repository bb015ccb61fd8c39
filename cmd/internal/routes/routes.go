// Package routes holds the thin Echo adapters between HTTP and the services.
package routes

import (
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/labstack/echo/v4"
)

// ok wraps payloads in the success envelope every endpoint shares.
func ok(c echo.Context, code int, data any) error {
	return c.JSON(code, echo.Map{"success": true, "data": data})
}

// tokenData fetches the claims the auth middleware stored on the context.
func tokenData(c echo.Context) (*utils.TokenData, bool) {
	data, castOk := c.Get("token").(*utils.TokenData)
	return data, castOk && data != nil
}
