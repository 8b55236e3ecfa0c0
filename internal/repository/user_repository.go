package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// UserRepo persists application users.  Password hashing happens in the
// caller; the repository only stores the hash.
type UserRepo struct {
	db dbtx
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, password_hash, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts the user.  A taken username yields ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash, role, is_active) VALUES (?,?,?,?,?)",
		u.ID, u.Username, u.PasswordHash, u.Role, u.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return ErrUsernameExists
		}
		return err
	}
	fresh, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = fresh
	return nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// UserByID adapts GetByID to the scheduling lookup contract.
func (r *UserRepo) UserByID(ctx context.Context, id string) (model.User, bool, error) {
	u, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

// List returns users matching the filter.  Username matches as a
// case-insensitive substring.
func (r *UserRepo) List(ctx context.Context, f model.UserFilter) ([]model.User, error) {
	where := []string{}
	args := []any{}
	if f.Username != "" {
		where = append(where, "LOWER(username) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Username)+"%")
	}
	if f.Role != "" {
		where = append(where, "role = ?")
		args = append(args, f.Role)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	col, ok := model.UserSortFields[f.SortBy]
	if !ok {
		col = "username"
	}
	dir := "ASC"
	if f.Direction == model.SortDesc {
		dir = "DESC"
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+cond+" ORDER BY "+col+" "+dir, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites username, role, active flag and password hash.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET username=?, password_hash=?, role=?, is_active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		u.Username, u.PasswordHash, u.Role, u.IsActive, u.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrUsernameExists
		}
		return err
	}
	fresh, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = fresh
	return nil
}

// Delete removes the user.  Users still assigned as engineer on maintenance
// records cannot be removed and yield ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		if isReferenced(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
