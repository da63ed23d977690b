package repository

import (
	"context"
	"database/sql"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateUser(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, locale, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Locale,
		string(user.Role),
		string(user.Status),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (q *queries) FindUserByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, name, locale, role, status, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	user := &entity.User{}
	if err := scanUser(q.db.QueryRowContext(ctx, query, id), user); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (q *queries) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, name, locale, role, status, created_at, updated_at
		FROM users
		WHERE email = ?
	`

	user := &entity.User{}
	if err := scanUser(q.db.QueryRowContext(ctx, query, email), user); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (q *queries) UpdateUser(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET
			email = ?,
			password_hash = ?,
			name = ?,
			locale = ?,
			role = ?,
			status = ?,
			updated_at = ?
		WHERE id = ?
	`

	_, err := q.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Locale,
		string(user.Role),
		string(user.Status),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil && isDuplicateEntryError(err) {
		return ErrEmailTaken
	}
	return err
}

func scanUser(row *sql.Row, user *entity.User) error {
	var role, status string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Locale,
		&role,
		&status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return err
	}
	user.Role = entity.Role(role)
	user.Status = entity.UserStatus(status)
	return nil
}
