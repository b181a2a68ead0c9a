package utils

import (
	"io"

	"gopkg.in/gomail.v2"
)

// Attachment is an in-memory file attached to an email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mailer sends HTML email.
type Mailer interface {
	SendEmail(to, subject, body string, attachments ...Attachment) error
}

// SMTPMailer sends through an SMTP relay with gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

func (m *SMTPMailer) SendEmail(to, subject, body string, attachments ...Attachment) error {
	return m.dialer.DialAndSend(NewMessage(m.from, to, subject, body, attachments...))
}

// NewMessage builds the gomail message sent by SMTPMailer.
func NewMessage(from, to, subject, body string, attachments ...Attachment) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	for _, a := range attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		m.Attach(a.Filename, settings...)
	}
	return m
}
