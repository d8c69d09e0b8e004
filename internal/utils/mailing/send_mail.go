package mailing

import (
	"fmt"
	"html"
	"strconv"

	"foodgram/internal/utils"

	"gopkg.in/gomail.v2"
)

type (
	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
	}

	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	smtpMailer struct {
		config MailConfig
	}

	noopMailer struct{}
)

func LoadMailConfig(cfg utils.Config) MailConfig {
	return MailConfig{
		AppURL:       cfg.AppURL,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPSender:   cfg.SMTPSenderName,
		SMTPEmail:    cfg.SMTPAuthEmail,
		SMTPPassword: cfg.SMTPAuthPassword,
	}
}

// NewMailer returns a mailer that silently drops messages when SMTP is not configured.
func NewMailer(cfg utils.Config) Mailer {
	if !cfg.SMTPEnabled() {
		return noopMailer{}
	}
	return &smtpMailer{config: LoadMailConfig(cfg)}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

func (noopMailer) SendMail(string, string, string) error {
	return nil
}

func WelcomeBody(appURL, username string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>welcome to Foodgram! Start sharing recipes at <a href="%s">%s</a>.</p>`,
		html.EscapeString(username), appURL, appURL,
	)
}
