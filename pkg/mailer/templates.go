package mailer

import (
	"bytes"
	"fmt"
	texttpl "text/template"
)

var welcomeText = texttpl.Must(texttpl.New("welcome").Parse(
	`Hi {{.Name}},

Welcome to {{.AppName}}! We're glad to have you on board.

Log in any time to browse tours and share your reviews.

— The {{.AppName}} team
`))

var passwordResetText = texttpl.Must(texttpl.New("password_reset").Parse(
	`Forgot your password? Submit a PATCH request with your new password to:

{{.ResetURL}}

This link is valid for 10 minutes. If you didn't forget your password,
please ignore this email.
`))

// Render produces the subject and text body for a job. Unknown templates
// are an error so the worker can dead-letter them instead of sending
// something half-baked.
func Render(job EmailJob) (subject, text string, err error) {
	var buf bytes.Buffer
	switch job.Template {
	case TemplateWelcome:
		if err := welcomeText.Execute(&buf, job.Data); err != nil {
			return "", "", err
		}
		return "Welcome to the family!", buf.String(), nil
	case TemplatePasswordReset:
		if err := passwordResetText.Execute(&buf, job.Data); err != nil {
			return "", "", err
		}
		return "Your password reset token (valid for 10 min)", buf.String(), nil
	default:
		return "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
}
