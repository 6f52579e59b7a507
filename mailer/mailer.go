package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"mechat-service/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New() *Mailer {
	port, _ := strconv.Atoi(config.Config("SMTP_PORT"))
	dialer := gomail.NewDialer(
		config.Config("SMTP_HOST"),
		port,
		config.Config("SMTP_USER"),
		config.Config("SMTP_PASSWORD"),
	)
	return &Mailer{
		dialer: dialer,
		from:   config.Config("MAIL_FROM"),
	}
}

func (m *Mailer) send(to string, subject string, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("meChat <%s>", m.from))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Reply-To", m.from)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// SendVerificationCode mails the account-verification OTP.
func (m *Mailer) SendVerificationCode(to string, name string, code string) error {
	body, err := render(verificationTemplate, map[string]string{
		"Name": name,
		"Code": code,
	})
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}
	return m.send(to, "Verify Your Email", body)
}

// SendWelcome mails the post-verification welcome note.
func (m *Mailer) SendWelcome(to string, name string) error {
	body, err := render(welcomeTemplate, map[string]string{
		"Name": name,
	})
	if err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}
	return m.send(to, "Welcome to meChat", body)
}

// SendPasswordReset mails the password-reset OTP.
func (m *Mailer) SendPasswordReset(to string, code string) error {
	body, err := render(resetTemplate, map[string]string{
		"Code": code,
	})
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}
	return m.send(to, "Reset Your meChat Password", body)
}

func render(t *template.Template, data any) (string, error) {
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
