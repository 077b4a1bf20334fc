package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const userColumns = `user_id, username, password_hash, full_name, role, active, created_at, updated_at`

type CreateUserParams struct {
	UserID       string
	Username     string
	PasswordHash string
	FullName     string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (TvrsUser, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tvrs.users (user_id, username, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		arg.UserID, arg.Username, arg.PasswordHash, arg.FullName, arg.Role)
	return scanUser(row)
}

func (q *Queries) GetUser(ctx context.Context, userID string) (TvrsUser, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM tvrs.users WHERE user_id = $1`, userID)
	return scanUser(row)
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (TvrsUser, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM tvrs.users WHERE username = $1`, username)
	return scanUser(row)
}

func (q *Queries) ListUsers(ctx context.Context, limit, offset int32) ([]TvrsUser, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+userColumns+` FROM tvrs.users
		ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var users []TvrsUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListUsersByIDs fetches the principals referenced by a page of audit events
// so rows can be enriched with actor identity.
func (q *Queries) ListUsersByIDs(ctx context.Context, ids []string) ([]TvrsUser, error) {
	rows, err := q.db.Query(ctx, `SELECT `+userColumns+` FROM tvrs.users WHERE user_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}
	defer rows.Close()
	var users []TvrsUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type UpdateUserParams struct {
	UserID   string
	FullName string
	Role     string
	Active   bool
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (TvrsUser, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tvrs.users SET full_name = $2, role = $3, active = $4, updated_at = now()
		WHERE user_id = $1
		RETURNING `+userColumns,
		arg.UserID, arg.FullName, arg.Role, arg.Active)
	return scanUser(row)
}

func (q *Queries) SetUserPassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE tvrs.users SET password_hash = $2, updated_at = now() WHERE user_id = $1`,
		userID, passwordHash)
	if err != nil {
		return fmt.Errorf("set user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (q *Queries) DeleteUser(ctx context.Context, userID string) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM tvrs.users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUser(row pgx.Row) (TvrsUser, error) {
	var u TvrsUser
	err := row.Scan(&u.UserID, &u.Username, &u.PasswordHash, &u.FullName,
		&u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
