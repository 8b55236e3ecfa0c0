package model

import "time"

// Role is the authorization role carried in access tokens.
type Role string

const (
    RoleAdmin    Role = "ADMIN"
    RoleEngineer Role = "ENGINEER"
    RolePilot    Role = "PILOT"
)

var Roles = []Role{RoleAdmin, RoleEngineer, RolePilot}

func (r Role) Valid() bool {
    for _, k := range Roles {
        if k == r {
            return true
        }
    }
    return false
}

// User represents an application user record as stored in the `users`
// table.  PasswordHash is never serialized.
//
// Fields:
//  ID           – primary key (UUID string).
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN, ENGINEER or PILOT.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           string    `json:"id"`         // users.id
    Username     string    `json:"username"`   // users.username
    PasswordHash string    `json:"-"`          // users.password_hash
    Role         Role      `json:"role"`       // users.role
    IsActive     bool      `json:"is_active"`  // users.is_active
    CreatedAt    time.Time `json:"created_at"` // users.created_at
    UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}

// UserFilter narrows user listings.  Username matches as a substring.
type UserFilter struct {
    Username  string
    Role      Role
    SortBy    string
    Direction SortDirection
}

// UserSortFields maps accepted sort keys to column names.
var UserSortFields = map[string]string{
    "username":   "username",
    "role":       "role",
    "created_at": "created_at",
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    string     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
