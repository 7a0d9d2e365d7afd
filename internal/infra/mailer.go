package infra

import (
	"fmt"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

type MailerInterface interface {
	SendPasswordReset(to, resetURL string) error
}

var _ MailerInterface = (*Mailer)(nil)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host, portStr, user, pass, from string) (*Mailer, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %v", portStr, err)
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}, nil
}

func (m *Mailer) SendPasswordReset(to, resetURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your password reset token (valid for 10 minutes)")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Forgot your password? Submit a new password at: %s\nIf you didn't request this, please ignore this email.", resetURL))
	return m.dialer.DialAndSend(msg)
}
