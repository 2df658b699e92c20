package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// SMTP delivers through a relay. Port 465 uses implicit TLS; other ports
// rely on STARTTLS negotiated by net/smtp.
type SMTP struct {
	cfg  SMTPConfig
	from Address
}

func NewSMTP(cfg SMTPConfig, from Address) *SMTP {
	return &SMTP{cfg: cfg, from: from}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	raw := s.build(msg)
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	errc := make(chan error, 1)
	go func() {
		if s.cfg.Port == "465" {
			errc <- s.sendTLS(addr, auth, msg.To.Email, raw)
			return
		}
		errc <- smtp.SendMail(addr, auth, s.from.Email, []string{msg.To.Email}, raw)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("mail/smtp: send: %w", err)
		}
		return nil
	}
}

func (s *SMTP) sendTLS(addr string, auth smtp.Auth, to string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(s.from.Email); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	return w.Close()
}

func (s *SMTP) build(msg Message) []byte {
	var b strings.Builder
	header := func(k, v string) { b.WriteString(k + ": " + v + "\r\n") }

	header("From", s.from.String())
	header("To", msg.To.String())
	if msg.ReplyTo.Email != "" {
		header("Reply-To", msg.ReplyTo.String())
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("MIME-Version", "1.0")

	body, ctype := msg.HTML, "text/html"
	if body == "" {
		body, ctype = msg.Text, "text/plain"
	}
	header("Content-Type", ctype+`; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
