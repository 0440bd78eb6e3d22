package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPasswordReset(t *testing.T) {
	job := NewPasswordResetJob("ada@example.com", "Ada", "https://app.test/resetPassword/rawtoken", 10*time.Minute)

	subject, text, html, err := Render(job)
	require.NoError(t, err)

	assert.Contains(t, subject, "password reset")
	assert.Contains(t, text, "Ada")
	assert.Contains(t, text, "https://app.test/resetPassword/rawtoken")
	assert.Contains(t, html, `href="https://app.test/resetPassword/rawtoken"`)
	assert.Contains(t, text, "10m0s")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render(EmailJob{Template: "nope"})
	assert.Error(t, err)
}
