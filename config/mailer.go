package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

type smtpSettings struct {
	host       string
	port       int
	user       string
	pass       string
	from       string
	skipVerify bool
}

// Settings are read per send so the relay can be reconfigured without a
// restart.
func loadSMTPSettings() smtpSettings {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return smtpSettings{
		host:       os.Getenv("SMTP_HOST"),
		port:       port,
		user:       os.Getenv("SMTP_USER"),
		pass:       os.Getenv("SMTP_PASS"),
		from:       os.Getenv("SMTP_FROM"), // e.g. "Editorial Office <no-reply@your.org>"
		skipVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// SendMail delivers one HTML message to the given recipients. An empty
// recipient list is a no-op; an unconfigured relay is an error so callers
// can log the misconfiguration.
func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	s := loadSMTPSettings()
	if s.host == "" || s.from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(s.host, s.port, s.user, s.pass)

	// Mandatory STARTTLS on 587 works with Gmail/Office365 relays.
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         s.host,
		InsecureSkipVerify: s.skipVerify, // dev only, set SMTP_SKIP_TLS_VERIFY=1
	}

	return d.DialAndSend(m)
}
