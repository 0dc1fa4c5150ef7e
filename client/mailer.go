package client

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"cems/config"
)

// Notifier delivers a message to a single recipient, optionally with an
// image attachment. Sends are fire-and-forget from the caller's point of
// view; delivery failures are reported but never block committed state.
type Notifier interface {
	Send(recipient string, subject string, body string, attachment []byte, attachmentName string) error
}

type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPMailer() *SMTPMailer {
	cfg := config.Env()
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
}

func (m *SMTPMailer) Send(recipient string, subject string, body string, attachment []byte, attachmentName string) error {
	var msg strings.Builder
	boundary := "cems-mail-boundary"
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	if attachment == nil {
		msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		msg.WriteString(body)
	} else {
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary))
		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		msg.WriteString(body)
		msg.WriteString(fmt.Sprintf("\r\n--%s\r\n", boundary))
		msg.WriteString(fmt.Sprintf("Content-Type: image/jpeg; name=%q\r\n", attachmentName))
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", attachmentName))
		msg.WriteString(base64.StdEncoding.EncodeToString(attachment))
		msg.WriteString(fmt.Sprintf("\r\n--%s--\r\n", boundary))
	}
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{recipient}, []byte(msg.String()))
}
