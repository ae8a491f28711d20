package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text notification mail over SMTP.
type Mailer struct {
	from string
	auth smtp.Auth
	addr string
}

func New(address, password, host, port string) *Mailer {
	var auth smtp.Auth
	if password != "" {
		auth = smtp.PlainAuth("", address, password, host)
	}

	return &Mailer{
		from: address,
		auth: auth,
		addr: host + ":" + port,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}

	return nil
}
