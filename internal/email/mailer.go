// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Message struct {
	ToEmail  string
	Subject  string
	TextBody string
}

// Mailer delivers messages through a single SMTP account.
type Mailer struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

func (m *Mailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", gm.FormatAddress(m.FromEmail, m.FromName))
	gm.SetHeader("To", msg.ToEmail)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.TextBody)

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
