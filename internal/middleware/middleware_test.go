package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/fleet-scheduling/internal/config"
    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/utils"
)

const secret = "test-secret"

func protected(roles ...model.Role) *echo.Echo {
    e := echo.New()
    e.GET("/who", func(c echo.Context) error {
        id, _ := IdentityFrom(c)
        return c.JSON(http.StatusOK, echo.Map{"id": id.UserID, "username": id.Username, "role": id.Role})
    }, JWTAuth(secret), RequireRole(roles...))
    return e
}

func call(e *echo.Echo, token string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodGet, "/who", nil)
    if token != "" {
        req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuthStoresIdentity(t *testing.T) {
    tok, err := utils.NewAccessToken(secret, "u-1", "jdoe", "ENGINEER", time.Minute)
    require.NoError(t, err)

    rec := call(protected(model.RoleAdmin, model.RoleEngineer), tok.Token)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"id":"u-1","username":"jdoe","role":"ENGINEER"}`, rec.Body.String())
}

func TestJWTAuthRejectsMissingOrBadToken(t *testing.T) {
    e := protected(model.RoleAdmin)
    assert.Equal(t, http.StatusUnauthorized, call(e, "").Code)
    assert.Equal(t, http.StatusUnauthorized, call(e, "garbage").Code)

    other, err := utils.NewAccessToken("other-secret", "u-1", "jdoe", "ADMIN", time.Minute)
    require.NoError(t, err)
    assert.Equal(t, http.StatusUnauthorized, call(e, other.Token).Code)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
    tok, err := utils.NewAccessToken(secret, "u-2", "pilot", "PILOT", time.Minute)
    require.NoError(t, err)
    assert.Equal(t, http.StatusForbidden, call(protected(model.RoleAdmin), tok.Token).Code)
}

func TestDisabledLimiterAndCachePassThrough(t *testing.T) {
    e := echo.New()
    e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
        RateLimit(config.RateLimitConfig{Enabled: true}, nil),
        ResponseCache(config.CacheConfig{Enabled: true}, nil))

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestRateKeyStrategies(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/flights", nil)
    req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/flights")
    SetIdentity(c, Identity{UserID: "u-9", Role: model.RoleAdmin})

    assert.Equal(t, "rl:ip:10.0.0.1", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
    assert.Equal(t, "rl:user:u-9", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
    assert.Equal(t, "rl:ip:10.0.0.1:user:u-9:route:GET /v1/flights",
        rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}, c))
}

func TestRecorderDropsOversizedBodies(t *testing.T) {
    rec := &recorder{ResponseWriter: httptest.NewRecorder(), limit: 4}
    _, _ = rec.Write([]byte("abc"))
    assert.False(t, rec.truncated)
    _, _ = rec.Write([]byte("de"))
    assert.True(t, rec.truncated)
}
