package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData holds data for the welcome email sent on signup.
type WelcomeEmailData struct {
	Email     string
	FirstName string
}

// ActivityRegistrationEmailData holds data for the registration-confirmation
// email. Calendar links and the profile deep link are built by the service.
type ActivityRegistrationEmailData struct {
	Email       string
	FullName    string
	Title       string
	Description string
	Date        string
	Time        string
	Link        string
	ProfileURL  string

	GoogleCalendarURL  string
	OutlookCalendarURL string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
	SendActivityRegistration(ctx context.Context, data *ActivityRegistrationEmailData) error
}
