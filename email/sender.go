package email

import (
	"crypto/tls"
	"log"

	"gopkg.in/gomail.v2"

	"Presence/Config"
)

// Sender delivers the daily attendance summary over SMTP. A nil Sender is a
// no-op, so callers don't branch on whether mail is configured.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

// NewSender returns nil when no SMTP host is configured.
func NewSender(cfg Config.EmailConfig) *Sender {
	if cfg.Host == "" || len(cfg.To) == 0 {
		return nil
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Sender{dialer: dialer, from: from, to: cfg.To}
}

// SendSummary mails an HTML summary body.
func (s *Sender) SendSummary(subject, htmlBody string) {
	if s == nil {
		return
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("Error when send mail: %v", err)
	}
}
