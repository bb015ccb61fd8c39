package utils

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var ErrBadToken = errors.New("invalid token")

// TokenData is the subset of bearer-token claims the API cares about. The
// identity provider that issues these tokens lives outside this service.
type TokenData struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ParseTokenDataCtx extracts and verifies the bearer token from the request's
// Authorization header.
func ParseTokenDataCtx(c echo.Context, secret string) (*TokenData, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return nil, ErrBadToken
	}
	return ParseToken(raw, secret)
}

func ParseToken(raw, secret string) (*TokenData, error) {
	tok, err := jwt.ParseWithClaims(raw, &TokenData{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	data, ok := tok.Claims.(*TokenData)
	if !ok || !tok.Valid || data.Sub == "" {
		return nil, ErrBadToken
	}
	return data, nil
}
