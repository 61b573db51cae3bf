// Package notify delivers the rendered report, either to a file on disk or
// as a single HTML email over an authenticated SMTP relay.
package notify

import (
	"context"
	"fmt"
	"os"

	mail "github.com/wneessen/go-mail"
)

// Sink delivers one rendered HTML report.
type Sink interface {
	Deliver(ctx context.Context, html string) error
}

// FileSink writes the report to a file, overwriting any previous content.
type FileSink struct {
	Path string
}

func (s FileSink) Deliver(_ context.Context, html string) error {
	if err := os.WriteFile(s.Path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", s.Path, err)
	}
	return nil
}

// EmailSink sends the report as one HTML message through an SMTP relay,
// authenticating with the sender address and a credential token. Transport
// and auth failures are returned to the caller and never retried.
type EmailSink struct {
	Host    string
	Port    int
	From    string
	To      string
	Token   string
	Subject string
}

func (s EmailSink) Deliver(ctx context.Context, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", s.From, err)
	}
	if err := msg.To(s.To); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", s.To, err)
	}
	msg.Subject(s.Subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	client, err := mail.NewClient(s.Host,
		mail.WithPort(s.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.From),
		mail.WithPassword(s.Token),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to set up SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email via %s: %w", s.Host, err)
	}
	return nil
}
