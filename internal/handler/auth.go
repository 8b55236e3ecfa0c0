package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/config"
    "github.com/iliyamo/fleet-scheduling/internal/middleware"
    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/repository"
    "github.com/iliyamo/fleet-scheduling/internal/utils"
)

// UserStore is the account persistence used by auth and user admin.
type UserStore interface {
    Create(ctx context.Context, u *model.User) error
    GetByID(ctx context.Context, id string) (model.User, error)
    GetByUsername(ctx context.Context, username string) (model.User, error)
    List(ctx context.Context, f model.UserFilter) ([]model.User, error)
    Update(ctx context.Context, u *model.User) error
    Delete(ctx context.Context, id string) error
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
    StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
    ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, userID string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  UserStore
    Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type authResp struct {
    User    model.User `json:"user"`
    Access  tokenPart  `json:"access"`
    Refresh tokenPart  `json:"refresh"`
}

func unauthorized(c echo.Context, msg string) error {
    return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: msg})
}

// issue signs an access token and stores a fresh refresh token for u.
func (h *AuthHandler) issue(ctx context.Context, u model.User) (authResp, error) {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, string(u.Role), h.Cfg.AccessTTL())
    if err != nil {
        return authResp{}, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTL())
    if err != nil {
        return authResp{}, err
    }
    if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return authResp{}, err
    }
    return authResp{
        User:    u,
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    }, nil
}

// Login: verify and return a new pair.  Deactivated accounts cannot log in.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return invalid(c, "username and password are required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByUsername(ctx, req.Username)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return unauthorized(c, "invalid credentials")
        }
        return respondError(c, err)
    }
    if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return unauthorized(c, "invalid credentials")
    }

    resp, err := h.issue(ctx, u)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, resp)
}

// refreshUser validates a raw refresh token and loads its active owner.
func (h *AuthHandler) refreshUser(ctx context.Context, raw string) (model.User, string, bool, error) {
    hash := utils.HashRefreshRaw(raw)
    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if errors.Is(err, repository.ErrTokenInvalid) {
        return model.User{}, "", false, nil
    }
    if err != nil {
        return model.User{}, "", false, err
    }
    u, err := h.Users.GetByID(ctx, userID)
    if errors.Is(err, repository.ErrNotFound) {
        return model.User{}, "", false, nil
    }
    if err != nil {
        return model.User{}, "", false, err
    }
    return u, hash, u.IsActive, nil
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return invalid(c, "refresh_token required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, hash, ok, err := h.refreshUser(ctx, strings.TrimSpace(req.RefreshToken))
    if err != nil {
        return respondError(c, err)
    }
    if !ok {
        return unauthorized(c, "invalid refresh token")
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return respondError(c, err)
    }
    resp, err := h.issue(ctx, u)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, resp)
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return invalid(c, "refresh_token required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, _, ok, err := h.refreshUser(ctx, strings.TrimSpace(req.RefreshToken))
    if err != nil {
        return respondError(c, err)
    }
    if !ok {
        return unauthorized(c, "invalid refresh token")
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, string(u.Role), h.Cfg.AccessTTL())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "access": tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Logout revokes one refresh token when refresh_token is posted, or every
// session of the bearer's user otherwise.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    _ = c.Bind(&req)
    refreshToken := strings.TrimSpace(req.RefreshToken)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if refreshToken != "" {
        hash := utils.HashRefreshRaw(refreshToken)
        if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
            return unauthorized(c, "invalid refresh token")
        }
        if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
            return respondError(c, err)
        }
        return c.NoContent(http.StatusNoContent)
    }

    raw, ok := middleware.BearerToken(c)
    if !ok {
        return invalid(c, "provide Authorization header or refresh_token")
    }
    claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, raw)
    if err != nil {
        return unauthorized(c, "invalid token")
    }
    if err := h.Tokens.RevokeAllForUser(ctx, claims.Subject); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
    id, ok := middleware.IdentityFrom(c)
    if !ok {
        return unauthorized(c, "missing identity")
    }
    return c.JSON(http.StatusOK, echo.Map{
        "user_id":  id.UserID,
        "username": id.Username,
        "role":     id.Role,
    })
}
