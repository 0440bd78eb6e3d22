package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	"github.com/wanderly/tours-api/pkg/query"
)

// userFields exposes only account attributes; password and the reset
// fields are not registered and can never be filtered or projected.
var userFields = fieldMap{
	id: "id",
	exprs: map[string]string{
		"id":        "id::text",
		"name":      "name",
		"email":     "email",
		"role":      "role",
		"photo":     "photo",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	defaults: []string{"name", "email", "role", "photo", "createdAt", "updatedAt"},
}

const userColumns = `id, name, email, password, photo, role, active, password_changed_at, password_reset_token, password_reset_expires, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var changedAt *time.Time
	var resetToken *string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Photo, &u.Role, &u.Active,
		&changedAt, &resetToken, &u.PasswordResetExpires, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if changedAt != nil {
		u.PasswordChangedAt = *changedAt
	}
	if resetToken != nil {
		u.PasswordResetToken = *resetToken
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, photo, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, active, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.Photo, u.Role)

	return row.Scan(&u.ID, &u.Active, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND active`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND active`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByResetTokenHash(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE password_reset_token = $1 AND password_reset_expires > $2 AND active
	`, digest, now)
	return scanUser(row)
}

// List serves the admin user index; soft-deleted accounts stay hidden.
func (r *UserRepository) List(ctx context.Context, spec query.Spec) ([]map[string]any, error) {
	sql, args, err := buildList("users", userFields, spec, "active")
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, photo = $3, role = $4, updated_at = now()
		WHERE id = $5
	`, u.Name, u.Email, u.Photo, u.Role, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdatePassword owns the credential invariants: the new hash,
// password_changed_at, and reset-field clearing land in one write.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password = $1, password_changed_at = now(),
		    password_reset_token = NULL, password_reset_expires = NULL,
		    updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, digest string, expires time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_reset_token = $1, password_reset_expires = $2
		WHERE id = $3
	`, digest, expires, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires = NULL
		WHERE id = $1
	`, id)
	return err
}

// Deactivate is the deleteMe soft delete; the row survives but every
// active-scoped lookup stops seeing it.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
