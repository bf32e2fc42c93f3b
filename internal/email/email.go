// Package email delivers a finished digest to an inbox over SMTP. The
// markdown artifact is converted to styled HTML and sent as a
// multipart/alternative message so plain-text clients still get a readable
// fallback.
package email

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"

	"daybrief/internal/config"
)

// Mailer sends digest emails through an SMTP relay using STARTTLS
// credentials (Gmail app passwords work on port 587).
type Mailer struct {
	cfg config.Email
}

// NewMailer validates the delivery configuration and returns a Mailer.
// Sender and app password are required; the receiver defaults to the
// sender.
func NewMailer(cfg config.Email) (*Mailer, error) {
	if cfg.Sender == "" || cfg.AppPassword == "" {
		return nil, fmt.Errorf("email delivery requires EMAIL_SENDER and EMAIL_APP_PASSWORD (settings.env or environment)")
	}
	if cfg.Receiver == "" {
		cfg.Receiver = cfg.Sender
	}
	return &Mailer{cfg: cfg}, nil
}

// Send converts the markdown digest to HTML and delivers it.
func (m *Mailer) Send(subject, markdownContent string) error {
	htmlContent := RenderHTML(markdownContent)

	msg, err := buildMessage(m.cfg.Sender, m.cfg.Receiver, subject, markdownContent, htmlContent)
	if err != nil {
		return fmt.Errorf("email: failed to build message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.Sender, m.cfg.AppPassword, m.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, m.cfg.Sender, []string{m.cfg.Receiver}, msg); err != nil {
		return fmt.Errorf("email: failed to send via %s: %w", addr, err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative MIME message with a plain
// text part (the raw markdown) and an HTML part.
func buildMessage(from, to, subject, plain, html string) ([]byte, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", alt.Boundary())
	fmt.Fprintf(&buf, "\r\n")

	for _, part := range []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=\"UTF-8\"", plain},
		{"text/html; charset=\"UTF-8\"", html},
	} {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", part.contentType)
		header.Set("Content-Transfer-Encoding", "quoted-printable")
		w, err := alt.CreatePart(header)
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}

	if err := alt.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
