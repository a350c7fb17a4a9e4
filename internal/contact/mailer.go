// Package contact delivers messages from the site's contact form by email.
package contact

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/smtp"
	"strings"
)

var (
	ErrNotConfigured = errors.New("SMTP credentials not configured")
	ErrInvalidInput  = errors.New("invalid contact form input")
)

// Config holds the SMTP settings.
type Config struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	// To defaults to the profile's contact email when empty.
	To string `koanf:"to"`
}

// Message is one submission of the contact form.
type Message struct {
	Name    string
	Email   string
	Message string
}

// Validate trims the fields and checks they are usable.
func (m *Message) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
	if m.Name == "" || m.Message == "" {
		return fmt.Errorf("%w: name and message are required", ErrInvalidInput)
	}
	if strings.ContainsAny(m.Name+m.Email, "\r\n") {
		return fmt.Errorf("%w: header fields may not contain line breaks", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return fmt.Errorf("%w: email: %v", ErrInvalidInput, err)
	}
	return nil
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends contact messages.
type Mailer struct {
	cfg  Config
	send SendFunc
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// Recipient is the address submissions are delivered to.
func (mr *Mailer) Recipient() string { return mr.cfg.To }

// Compose builds the raw email for m.
func (mr *Mailer) Compose(m Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", m.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.Name, m.Email, m.Message)

	return []byte("To: " + mr.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + mr.cfg.User + "\r\n" +
		"Reply-To: " + m.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// Send validates and delivers m.
func (mr *Mailer) Send(m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if mr.cfg.User == "" || mr.cfg.Pass == "" || mr.cfg.To == "" {
		return ErrNotConfigured
	}

	auth := smtp.PlainAuth("", mr.cfg.User, mr.cfg.Pass, mr.cfg.Host)
	if err := mr.send(mr.cfg.Host+":"+mr.cfg.Port, auth, mr.cfg.User, []string{mr.cfg.To}, mr.Compose(m)); err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}

	log.Printf("Contact email sent from %s", m.Name)
	return nil
}
