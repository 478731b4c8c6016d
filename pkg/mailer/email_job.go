package mailer

// Template names understood by the email worker.
const (
	TemplateWelcome       = "welcome"
	TemplatePasswordReset = "password_reset"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Data carries the template variables; see pkg/mailer/templates.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}
