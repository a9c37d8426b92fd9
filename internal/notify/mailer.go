// Package notify implements the notification sink consumed by the
// request lifecycle: a fire-and-forget email (or log line) telling a
// requester that their adoption request changed state.
//
// Dispatch always happens after the state transition has committed.
// Implementations therefore only report failure — they never participate
// in, or roll back, the transaction that produced the change.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	mail "github.com/wneessen/go-mail"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MatiBarber/PetNet/internal/services"
)

// titleCaser renders pet names in subject lines ("luna" -> "Luna").
var titleCaser = cases.Title(language.English)

// SMTPOptions configures the outbound mail client.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // sender address, e.g. "PetNet <no-reply@petnet.example>"
}

// Mailer delivers status notifications over SMTP.
type Mailer struct {
	client *mail.Client
	from   string
}

// NewMailer builds an SMTP-backed notifier. TLS is opportunistic so local
// relays without STARTTLS keep working in development.
func NewMailer(opt SMTPOptions) (*Mailer, error) {
	client, err := mail.NewClient(opt.Host,
		mail.WithPort(opt.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(opt.Username),
		mail.WithPassword(opt.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{client: client, from: opt.From}, nil
}

// StatusChanged sends the status email to the requester. Errors are
// returned for the caller to log; they never affect the committed state.
func (m *Mailer) StatusChanged(ctx context.Context, n services.StatusNotification) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(n.RecipientEmail); err != nil {
		return fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(Subject(n))
	msg.SetBodyString(mail.TypeTextPlain, Body(n))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send status mail: %w", err)
	}
	return nil
}

// Subject renders the email subject for a status notification.
func Subject(n services.StatusNotification) string {
	pet := titleCaser.String(n.PetName)
	if pet == "" {
		pet = "your requested pet"
	}
	return fmt.Sprintf("Your adoption request for %s is now %s", pet, n.Status)
}

// Body renders the plain-text email body for a status notification.
func Body(n services.StatusNotification) string {
	name := n.RecipientName
	if name == "" {
		name = "there"
	}
	pet := titleCaser.String(n.PetName)
	if pet == "" {
		pet = "the pet you applied for"
	}
	return fmt.Sprintf(
		"Hi %s,\n\nThe owner has updated your adoption request for %s: it is now %s.\n\nYou can review the request in your PetNet account.\n\n— The PetNet team\n",
		name, pet, n.Status,
	)
}

// LogNotifier is the notifier used when SMTP is not configured: it logs
// the would-be email instead of sending it. Useful for development and
// tests; delivery "succeeds" unconditionally.
type LogNotifier struct{}

// StatusChanged logs the notification at info level.
func (LogNotifier) StatusChanged(_ context.Context, n services.StatusNotification) error {
	log.Info().
		Str("recipient", n.RecipientEmail).
		Str("pet", n.PetName).
		Str("status", n.Status).
		Msg("status notification (smtp disabled)")
	return nil
}
