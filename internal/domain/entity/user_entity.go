package entity

import (
	"time"
)

// Roles a user can hold. Route guards compare against these.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash and never appears in serialized output;
// the reset fields hold only the SHA-256 digest of an outstanding reset
// token and its expiry, both nil when no reset is pending.
type User struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	Password             string     `json:"-"`
	Photo                string     `json:"photo,omitempty"`
	Role                 string     `json:"role"`
	Active               bool       `json:"-"`
	PasswordChangedAt    time.Time  `json:"-"`
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// PasswordChangedAfter reports whether the password was changed after the
// given token issuance time. Comparison is at second precision because JWT
// iat claims carry seconds.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return issuedAt.Truncate(time.Second).Before(u.PasswordChangedAt.Truncate(time.Second))
}

// HasPendingReset reports whether an unexpired reset token is outstanding.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.PasswordResetToken != "" && u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now)
}
