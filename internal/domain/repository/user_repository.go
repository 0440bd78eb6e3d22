package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/pkg/query"
)

// ErrNotFound is returned by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// UserRepository is the credential store contract. The save paths own two
// invariants: Create/UpdatePassword store only hashes handed to them, and
// UpdatePassword bumps password_changed_at as part of the same write.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetTokenHash matches the stored token digest and requires the
	// expiry to be after now.
	GetByResetTokenHash(ctx context.Context, digest string, now time.Time) (*entity.User, error)
	List(ctx context.Context, spec query.Spec) ([]map[string]any, error)
	Update(ctx context.Context, u *entity.User) error
	// UpdatePassword stores the new hash, sets password_changed_at, and
	// clears any outstanding reset token in one statement.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetResetToken and ClearResetToken are the save-without-validation
	// path: they touch only the reset fields.
	SetResetToken(ctx context.Context, id, digest string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
