// This file defines the repository for users. Refresh-token state is
// stored on the users row itself, so UpdateCredentials writes the
// access token and all four refresh columns in a single statement and
// the pair can never drift apart.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/averdin/northwind-api/internal/model"
)

// ErrUserNotFound is returned when a user cannot be found.
var ErrUserNotFound = errors.New("user not found")

// UserRepo encapsulates all database queries related to users.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userCols = `id, identifier, user_name, password_salt, password_hash,
	access_token, role, refresh_value, refresh_created_at, refresh_expires_at, refresh_revoked_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u          model.User
		identifier string
		role       string
		access     sql.NullString
		refresh    sql.NullString
		created    sql.NullTime
		expires    sql.NullTime
		revoked    sql.NullTime
	)
	err := row.Scan(&u.ID, &identifier, &u.UserName, &u.PasswordSalt, &u.PasswordHash,
		&access, &role, &refresh, &created, &expires, &revoked)
	if err != nil {
		return nil, err
	}
	if u.Identifier, err = uuid.Parse(identifier); err != nil {
		return nil, err
	}
	if r, ok := model.ParseRole(role); ok {
		u.Role = r
	}
	u.AccessToken = access.String
	u.RefreshToken.Value = refresh.String
	if created.Valid {
		t := created.Time
		u.RefreshToken.CreateDate = &t
	}
	if expires.Valid {
		t := expires.Time
		u.RefreshToken.ExpiryDate = &t
	}
	if revoked.Valid {
		t := revoked.Time
		u.RefreshToken.RevokeDate = &t
	}
	return &u, nil
}

// ListAll returns every user ordered by id.
func (r *UserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByIdentifier fetches a user by its external identifier.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE identifier = ?`, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByUserName fetches a user by exact, case-sensitive user name.
// The BINARY cast defeats MySQL's case-insensitive collation.
func (r *UserRepo) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE user_name = BINARY ?`, userName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByRefreshValue fetches the user whose current refresh-token value
// exactly matches the supplied string. Expiry is not checked here;
// that precondition belongs to the caller so that "not found" and
// "expired" remain distinguishable.
func (r *UserRepo) GetByRefreshValue(ctx context.Context, value string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE refresh_value = BINARY ?`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Create inserts a user and populates its ID. A user-name collision
// surfaces as ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (bool, error) {
	const q = `INSERT INTO users
		(identifier, user_name, password_salt, password_hash, access_token, role,
		 refresh_value, refresh_created_at, refresh_expires_at, refresh_revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Identifier.String(), u.UserName,
		u.PasswordSalt, u.PasswordHash, u.AccessToken, u.Role.String(),
		u.RefreshToken.Value, u.RefreshToken.CreateDate, u.RefreshToken.ExpiryDate,
		u.RefreshToken.RevokeDate)
	if err != nil {
		if isDuplicateErr(err) {
			return false, ErrDuplicate
		}
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	u.ID = uint64(id)
	return affected(res), nil
}

// UpdateCredentials persists the access token and refresh-token state
// queued on the user record by the credential engine.
func (r *UserRepo) UpdateCredentials(ctx context.Context, u *model.User) (bool, error) {
	const q = `UPDATE users SET access_token = ?, refresh_value = ?,
		refresh_created_at = ?, refresh_expires_at = ?, refresh_revoked_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, u.AccessToken, u.RefreshToken.Value,
		u.RefreshToken.CreateDate, u.RefreshToken.ExpiryDate, u.RefreshToken.RevokeDate, u.ID)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// Delete removes a user row entirely, its refresh-token state with it.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}
