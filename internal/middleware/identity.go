package middleware

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/model"
)

const identityKey = "identity"

// Identity is the authenticated caller as established by JWTAuth.
type Identity struct {
    UserID   string
    Username string
    Role     model.Role
}

// SetIdentity stores id on the request context.
func SetIdentity(c echo.Context, id Identity) { c.Set(identityKey, id) }

// IdentityFrom returns the caller stored by JWTAuth.
func IdentityFrom(c echo.Context) (Identity, bool) {
    id, ok := c.Get(identityKey).(Identity)
    return id, ok && id.UserID != ""
}

// userID returns the caller's id or "anon" for unauthenticated requests.
func userID(c echo.Context) string {
    if id, ok := IdentityFrom(c); ok {
        return id.UserID
    }
    return "anon"
}
