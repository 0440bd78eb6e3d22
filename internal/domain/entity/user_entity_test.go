package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordChangedAfter(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("NeverChanged", func(t *testing.T) {
		u := &User{}
		assert.False(t, u.PasswordChangedAfter(base))
	})

	t.Run("ChangedBeforeIssuance", func(t *testing.T) {
		u := &User{PasswordChangedAt: base.Add(-time.Hour)}
		assert.False(t, u.PasswordChangedAfter(base))
	})

	t.Run("ChangedAfterIssuance", func(t *testing.T) {
		u := &User{PasswordChangedAt: base.Add(time.Hour)}
		assert.True(t, u.PasswordChangedAfter(base))
	})

	t.Run("SubSecondSkewIgnored", func(t *testing.T) {
		// iat claims carry seconds; a change within the same second must
		// not invalidate the token that was just issued with it
		u := &User{PasswordChangedAt: base.Add(500 * time.Millisecond)}
		assert.False(t, u.PasswordChangedAfter(base))
	})
}

func TestHasPendingReset(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, (&User{}).HasPendingReset(now))
	assert.False(t, (&User{PasswordResetToken: "digest", PasswordResetExpires: &past}).HasPendingReset(now))
	assert.True(t, (&User{PasswordResetToken: "digest", PasswordResetExpires: &future}).HasPendingReset(now))
}

func TestUserSerializationHidesSecrets(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute)
	u := &User{
		ID:                   "u1",
		Name:                 "Ada",
		Email:                "ada@example.com",
		Password:             "$2a$10$hash",
		Role:                 RoleUser,
		PasswordResetToken:   "digest",
		PasswordResetExpires: &expires,
	}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.NotContains(t, out, "password")
	assert.NotContains(t, string(b), "$2a$10$hash")
	assert.NotContains(t, string(b), "digest")
	assert.Equal(t, "ada@example.com", out["email"])
}
