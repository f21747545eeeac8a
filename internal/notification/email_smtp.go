package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mail "github.com/xhit/go-simple-mail/v2"
)

// smtpEmailSender delivers email via SMTP. Each Send dials a fresh connection;
// delivery volume here is low (verification codes and reset links), so a
// keepalive pool is not worth its failure modes.
type smtpEmailSender struct {
	client *mail.SMTPServer
	from   string
	log    *slog.Logger
}

// NewSMTPEmailSender creates a new sender that uses an SMTP server. Port 465
// uses implicit TLS; everything else negotiates STARTTLS.
func NewSMTPEmailSender(host string, port int, username, password, from string, log *slog.Logger) emailSender {
	server := mail.NewSMTPClient()
	server.Host = host
	server.Port = port
	server.Username = username
	server.Password = password
	if port == 465 {
		server.Encryption = mail.EncryptionSSLTLS
	} else {
		server.Encryption = mail.EncryptionSTARTTLS
	}
	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	return &smtpEmailSender{
		client: server,
		from:   from,
		log:    log,
	}
}

func (s *smtpEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	// The SMTP client has no context plumbing; honor cancellation at least
	// before dialing.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("smtp send aborted: %w", err)
	}

	smtpClient, err := s.client.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer smtpClient.Close()

	email := mail.NewMSG()
	email.SetFrom(s.from).AddTo(to).SetSubject(subject)
	email.SetBody(mail.TextHTML, htmlBody)
	if email.Error != nil {
		return fmt.Errorf("failed to build email: %w", email.Error)
	}

	if err = email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("email sent via smtp", "to", to)
	return nil
}
