package services

import (
	"fmt"
	"html"
	"net/smtp"

	"github.com/dimitrije/hackmatch-api/internal/config"
)

type EmailService struct {
	cfg     config.SMTPConfig
	siteURL string
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig, siteURL string) *EmailService {
	return &EmailService{cfg: cfg, siteURL: siteURL, send: smtp.SendMail}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

// SendNotification mails a copy of an in-app notification. link is relative to the site URL.
func (s *EmailService) SendNotification(to, name, message, link string) error {
	subject := "HackMatch: " + message
	if len(subject) > 120 {
		subject = subject[:117] + "..."
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>%s</p>
			<p><a href="%s%s">Open HackMatch</a></p>
		</body>
		</html>
	`, html.EscapeString(name), html.EscapeString(message), s.siteURL, html.EscapeString(link))

	return s.Send(to, subject, body)
}
