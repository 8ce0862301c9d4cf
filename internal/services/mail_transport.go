package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"trustly/pkg/config"
)

// OutgoingMail is a rendered message ready for a transport.
type OutgoingMail struct {
	FromName string
	To       string
	Subject  string
	HTML     string
	Text     string
}

type MailTransport interface {
	Send(ctx context.Context, mail OutgoingMail) error
}

// NewMailTransport selects the provider named by cfg.Provider.
func NewMailTransport(cfg config.MailConfig, logger *zap.Logger) (MailTransport, error) {
	switch strings.ToLower(cfg.Provider) {
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, errors.New("RESEND_API_KEY is required when MAIL_PROVIDER=resend")
		}
		return &resendTransport{client: resend.NewClient(cfg.ResendAPIKey), from: cfg.FromAddress}, nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, errors.New("SMTP_HOST is required when MAIL_PROVIDER=smtp")
		}
		return &smtpTransport{cfg: SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.FromAddress,
			UseSSL:   cfg.SMTPUseSSL,
		}}, nil
	case "", "log":
		return &logTransport{logger: logger.Named("mail"), from: cfg.FromAddress}, nil
	default:
		return nil, errors.Errorf("unknown MAIL_PROVIDER %q", cfg.Provider)
	}
}

func formatFrom(name, address string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), address)
}

// ------------------- Resend -------------------

type resendTransport struct {
	client *resend.Client
	from   string
}

func (t *resendTransport) Send(ctx context.Context, mail OutgoingMail) error {
	_, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    formatFrom(mail.FromName, t.from),
		To:      []string{mail.To},
		Subject: mail.Subject,
		Html:    mail.HTML,
		Text:    mail.Text,
	})
	if err != nil {
		return errors.Wrap(err, "resend send")
	}
	return nil
}

// ------------------- Log -------------------

// logTransport only records the message; used in development.
type logTransport struct {
	logger *zap.Logger
	from   string
}

func (t *logTransport) Send(_ context.Context, mail OutgoingMail) error {
	t.logger.Info("email",
		zap.String("from", formatFrom(mail.FromName, t.from)),
		zap.String("to", mail.To),
		zap.String("subject", mail.Subject),
		zap.String("text", mail.Text),
	)
	return nil
}

// ------------------- SMTP -------------------

type SMTPConfig struct {
	Host       string // e.g. "smtp.gmail.com"
	Port       int    // e.g. 587 (STARTTLS) or 465 (SMTPS)
	Username   string
	Password   string
	From       string // envelope from, e.g. "no-reply@yourapp.com"
	UseSSL     bool   // true for SMTPS 465, false for STARTTLS 587
	RequireTLS bool   // if true, fail if STARTTLS not available
}

type smtpTransport struct {
	cfg SMTPConfig
}

func (t *smtpTransport) Send(ctx context.Context, mail OutgoingMail) error {
	msg := t.buildMessage(mail)
	addr := fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	var (
		conn net.Conn
		err  error
	)
	if t.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: t.tlsConfig()}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return errors.Wrap(err, "smtp dial")
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		return errors.Wrap(err, "smtp handshake")
	}
	defer c.Quit()

	if !t.cfg.UseSSL {
		// Upgrade to TLS if supported
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(t.tlsConfig()); err != nil {
				return errors.Wrap(err, "smtp starttls")
			}
		} else if t.cfg.RequireTLS {
			return errors.New("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if t.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)); err != nil {
			return errors.Wrap(err, "smtp auth")
		}
	}
	if err = c.Mail(t.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(mail.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (t *smtpTransport) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}
}

func (t *smtpTransport) buildMessage(mail OutgoingMail) []byte {
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	// Headers
	write("From: %s\r\n", formatFrom(mail.FromName, t.cfg.From))
	write("To: %s\r\n", mail.To)
	write("Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", mail.Subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	// Plaintext part
	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", mail.Text)

	// HTML part
	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", mail.HTML)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}
