package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/config"
    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/repository"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
    "github.com/iliyamo/fleet-scheduling/internal/utils"
)

// UserHandler serves the admin-only /v1/users endpoints.
type UserHandler struct {
    Cfg    config.Config
    Users  UserStore
    Tokens TokenStore
    IDs    scheduling.IDGenerator
}

func NewUserHandler(cfg config.Config, u UserStore, t TokenStore, ids scheduling.IDGenerator) *UserHandler {
    return &UserHandler{Cfg: cfg, Users: u, Tokens: t, IDs: ids}
}

type createUserReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
    Role     string `json:"role"`
}

type updateUserReq struct {
    Username *string `json:"username"`
    Password *string `json:"password"`
    Role     *string `json:"role"`
    IsActive *bool   `json:"is_active"`
}

func parseRole(v string) (model.Role, error) {
    r := model.Role(strings.ToUpper(strings.TrimSpace(v)))
    if !r.Valid() {
        return "", scheduling.Reject(scheduling.KindValidationFailed, "role must be one of ADMIN, ENGINEER, PILOT")
    }
    return r, nil
}

func checkUsername(v string) (string, error) {
    v = strings.TrimSpace(v)
    if !scheduling.ValidUsername(v) {
        return "", scheduling.Reject(scheduling.KindValidationFailed, "username %q is malformed", v)
    }
    return v, nil
}

// hashPassword maps a too-short password to a validation failure.
func (h *UserHandler) hashPassword(plain string) (string, error) {
    hash, err := utils.HashPassword(plain, h.Cfg.BcryptCost)
    if errors.Is(err, utils.ErrWeakPassword) {
        return "", scheduling.Reject(scheduling.KindValidationFailed, "%s", err.Error())
    }
    return hash, err
}

func usernameTaken(err error, username string) error {
    if errors.Is(err, repository.ErrUsernameExists) {
        return scheduling.Reject(scheduling.KindUsernameAlreadyExists, "username %s is taken", username)
    }
    return err
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(c echo.Context) error {
    var req createUserReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    username, err := checkUsername(req.Username)
    if err != nil {
        return respondError(c, err)
    }
    role, err := parseRole(req.Role)
    if err != nil {
        return respondError(c, err)
    }
    hash, err := h.hashPassword(req.Password)
    if err != nil {
        return respondError(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u := model.User{ID: h.IDs.New(), Username: username, PasswordHash: hash, Role: role, IsActive: true}
    if err := h.Users.Create(ctx, &u); err != nil {
        return respondError(c, usernameTaken(err, username))
    }
    return c.JSON(http.StatusCreated, u)
}

// List handles GET /v1/users?username=&role=&sort_by=&order=.
func (h *UserHandler) List(c echo.Context) error {
    f := model.UserFilter{
        Username: strings.TrimSpace(c.QueryParam("username")),
        SortBy:   strings.ToLower(strings.TrimSpace(c.QueryParam("sort_by"))),
    }
    if v := c.QueryParam("role"); v != "" {
        r, err := parseRole(v)
        if err != nil {
            return respondError(c, err)
        }
        f.Role = r
    }
    if f.SortBy == "" {
        f.SortBy = "username"
    }
    if _, ok := model.UserSortFields[f.SortBy]; !ok {
        return invalid(c, "cannot sort by %q", f.SortBy)
    }
    dir, err := parseDirection(c.QueryParam("order"))
    if err != nil {
        return respondError(c, err)
    }
    f.Direction = dir

    out, err := h.Users.List(c.Request().Context(), f)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
    id := c.Param("id")
    u, err := h.Users.GetByID(c.Request().Context(), id)
    if err != nil {
        return notFound(c, err, scheduling.KindUserNotFound, "user", id)
    }
    return c.JSON(http.StatusOK, u)
}

// Update handles PATCH /v1/users/:id.  Changing the password or
// deactivating the account revokes every refresh token of the user.
func (h *UserHandler) Update(c echo.Context) error {
    var req updateUserReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id := c.Param("id")
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return notFound(c, err, scheduling.KindUserNotFound, "user", id)
    }

    revoke := false
    if req.Username != nil {
        name, err := checkUsername(*req.Username)
        if err != nil {
            return respondError(c, err)
        }
        u.Username = name
    }
    if req.Role != nil {
        r, err := parseRole(*req.Role)
        if err != nil {
            return respondError(c, err)
        }
        u.Role = r
    }
    if req.Password != nil {
        hash, err := h.hashPassword(*req.Password)
        if err != nil {
            return respondError(c, err)
        }
        u.PasswordHash = hash
        revoke = true
    }
    if req.IsActive != nil {
        if u.IsActive && !*req.IsActive {
            revoke = true
        }
        u.IsActive = *req.IsActive
    }

    if err := h.Users.Update(ctx, &u); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return notFound(c, err, scheduling.KindUserNotFound, "user", id)
        }
        return respondError(c, usernameTaken(err, u.Username))
    }
    if revoke {
        if err := h.Tokens.RevokeAllForUser(ctx, u.ID); err != nil {
            return respondError(c, err)
        }
    }
    return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /v1/users/:id.  Engineers still assigned to
// maintenance records cannot be deleted.
func (h *UserHandler) Delete(c echo.Context) error {
    id := c.Param("id")
    err := h.Users.Delete(c.Request().Context(), id)
    switch {
    case err == nil:
        return c.NoContent(http.StatusNoContent)
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, errorBody{Error: "conflict", Message: "user is assigned to maintenance records"})
    default:
        return notFound(c, err, scheduling.KindUserNotFound, "user", id)
    }
}

// Roles handles GET /v1/users/roles.
func (h *UserHandler) Roles(c echo.Context) error {
    return c.JSON(http.StatusOK, model.Roles)
}
