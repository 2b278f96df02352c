package services

import (
	"context"
	"fmt"
	"log/slog"

	"communityhub/internal/domain"
)

type emailService struct {
	logger   *slog.Logger
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(logger *slog.Logger, mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{logger: logger, mailer: mailer, renderer: renderer}
}

// SendWelcome sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	s.logger.InfoContext(ctx, "welcome email sent", "to", data.Email)
	return nil
}

// SendActivityRegistration sends the registration confirmation using the
// "activity_registration" template.
func (s *emailService) SendActivityRegistration(ctx context.Context, data *domain.ActivityRegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("activity registration email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("activity_registration", data)
	if err != nil {
		return fmt.Errorf("failed to render activity_registration template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send activity registration email: %w", err)
	}
	s.logger.InfoContext(ctx, "activity registration email sent", "to", data.Email)
	return nil
}
