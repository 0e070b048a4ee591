package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// Mailer sends transactional email. The SMTP implementation is swapped for
// a recording fake in tests.
type Mailer interface {
	SendPasswordReset(to, name, resetURL string) error
}

type smtpMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(host string, port int, user, pass, from string) Mailer {
	return &smtpMailer{host: host, port: port, user: user, pass: pass, from: from}
}

var resetEmailTmpl = template.Must(template.New("reset").Parse(`<html>
<body>
<p>Hi {{.Name}},</p>
<p>You requested a password reset. The link below is valid for one hour:</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`))

func (m *smtpMailer) SendPasswordReset(to, name, resetURL string) error {
	var body bytes.Buffer
	data := struct {
		Name     string
		ResetURL string
	}{Name: name, ResetURL: resetURL}
	if err := resetEmailTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	msg.WriteString("Subject: Password Reset\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
