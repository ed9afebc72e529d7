package service

import (
	"fmt"
	"log/slog"
	"strings"

	"rttrailserver/internal/email"
)

// Mailer is the SMTP delivery transport. A nil Mailer disables outbound
// mail; the service then logs the links it would have sent.
type Mailer interface {
	Send(msg email.Message) error
}

type MailService struct {
	Mailer    Mailer
	PublicURL string
	Logger    *slog.Logger
}

func (s *MailService) Enabled() bool {
	return s != nil && s.Mailer != nil
}

func (s *MailService) SendActivation(toEmail, activationToken string) error {
	body := strings.Join([]string{
		"Welcome to RTTrail.",
		"",
		"Confirm your email address using this activation token:",
		activationToken,
		"",
		"If you did not create an account, you can ignore this email.",
	}, "\n")
	return s.send(toEmail, "RTTrail - confirm your email", body,
		"activation token", activationToken)
}

func (s *MailService) SendAccountExists(toEmail string) error {
	body := strings.Join([]string{
		"An account with this email address already exists.",
		"",
		"If you forgot your password, you can reset it from the application.",
	}, "\n")
	return s.send(toEmail, "RTTrail - your account already exists", body,
		"account exists notice", "")
}

func (s *MailService) SendRecover(toEmail, resetToken string) error {
	body := strings.Join([]string{
		"You requested a password reset.",
		"",
		"Reset your password using this token:",
		resetToken,
		"",
		"If you did not request this, you can ignore this email.",
	}, "\n")
	return s.send(toEmail, "RTTrail - reset your password", body,
		"reset token", resetToken)
}

func (s *MailService) SendRecoverNoAccount(toEmail string) error {
	body := strings.Join([]string{
		"A password reset was requested for this address, but no account exists.",
		"",
		"You may have registered with a different email address.",
	}, "\n")
	return s.send(toEmail, "RTTrail - reset your password", body,
		"reset notice (no account)", "")
}

func (s *MailService) SendEmailMigration(newEmail, confirmationToken string) error {
	link := fmt.Sprintf("%s/login/migrate-mail-confirm?token=%s", strings.TrimRight(s.PublicURL, "/"), confirmationToken)
	body := strings.Join([]string{
		"You requested to change the email address of your account.",
		"",
		"Confirm your new email address by clicking the following link:",
		link,
		"",
		"If you did not request this, you can ignore this email.",
	}, "\n")
	return s.send(newEmail, "RTTrail - confirm your new email address", body,
		"email migration link", link)
}

func (s *MailService) SendEmailMigrationAlreadyUsed(newEmail string) error {
	body := strings.Join([]string{
		"An email change was requested towards this address, but an account already uses it.",
		"",
		"If this was you, no action is needed.",
	}, "\n")
	return s.send(newEmail, "RTTrail - confirm your new email address", body,
		"email migration notice (address in use)", "")
}

func (s *MailService) send(toEmail, subject, body, what, secret string) error {
	if !s.Enabled() {
		if s.Logger != nil {
			s.Logger.Info("smtp disabled, mail not sent",
				"category", "security", "to", toEmail, "kind", what, "value", secret)
		}
		return nil
	}
	return s.Mailer.Send(email.Message{
		ToEmail:  toEmail,
		Subject:  subject,
		TextBody: body,
	})
}
