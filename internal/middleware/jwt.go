package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/utils"
)

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    return raw, raw != ""
}

// JWTAuth validates the Bearer access token and stores the caller's
// Identity on the context.  Requests without a valid token get 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := BearerToken(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "missing bearer token"})
            }
            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid token"})
            }
            SetIdentity(c, Identity{
                UserID:   claims.Subject,
                Username: claims.Username,
                Role:     model.Role(claims.Role),
            })
            return next(c)
        }
    }
}
