package mailer

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
	"time"
)

// EmailJob is the message published to the email queue by the API and
// consumed by cmd/email_worker.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

const TemplatePasswordReset = "password_reset"

const resetText = `Hi {{.Name}},

Forgot your password? Submit a PATCH request with your new password to:

{{.ResetURL}}

The link is valid for {{.ExpiresIn}}. If you didn't forget your password, please ignore this email.
`

const resetHTML = `<p>Hi {{.Name}},</p>
<p>Forgot your password? Use the link below to choose a new one:</p>
<p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
<p>The link is valid for {{.ExpiresIn}}. If you didn't forget your password, please ignore this email.</p>
`

var (
	resetTextTpl = texttpl.Must(texttpl.New("reset_text").Parse(resetText))
	resetHTMLTpl = htmpl.Must(htmpl.New("reset_html").Parse(resetHTML))
)

// NewPasswordResetJob builds the job payload for a reset email.
func NewPasswordResetJob(to, name, resetURL string, expiresIn time.Duration) EmailJob {
	return EmailJob{
		To:       to,
		Template: TemplatePasswordReset,
		Data: map[string]any{
			"Name":      name,
			"ResetURL":  resetURL,
			"ExpiresIn": expiresIn.String(),
		},
	}
}

// Render produces subject, text, and html bodies for a job.
func Render(job EmailJob) (subject, text, html string, err error) {
	switch job.Template {
	case TemplatePasswordReset:
		var tb, hb bytes.Buffer
		if err := resetTextTpl.Execute(&tb, job.Data); err != nil {
			return "", "", "", err
		}
		if err := resetHTMLTpl.Execute(&hb, job.Data); err != nil {
			return "", "", "", err
		}
		return "Your password reset token (valid for 10 min)", tb.String(), hb.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
}
