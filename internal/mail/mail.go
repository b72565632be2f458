// Package mail dispatches the waitlist's transactional emails. Transports
// are pluggable: the Resend API when a key is configured, an SMTP relay as
// fallback, and a warning no-op so the product stays usable without email
// credentials. Dispatch failures are reported to the caller but must never
// unwind the operation that triggered them.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/cove-house/waitlist-service/internal/config"
	"github.com/cove-house/waitlist-service/internal/domain"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// Message is one outbound email.
type Message struct {
	FromName  string
	FromEmail string
	To        string
	Subject   string
	HTML      string
}

// Sender delivers a single message through a concrete transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Mailer renders templates and hands messages to the selected transport.
type Mailer struct {
	sender Sender
	cfg    config.MailConfig
	logger *zap.Logger
	tmpl   *template.Template
}

// ConfirmationData feeds the post-submission template.
type ConfirmationData struct {
	IsDemand bool
	CityList string
}

// ApprovalData feeds the approval template. ReferralLink is included in the
// body verbatim.
type ApprovalData struct {
	IsDemand     bool
	Greeting     string
	CityList     string
	ReferralLink string
}

// New builds a Mailer, selecting the transport from configuration:
// Resend when an API key is present, otherwise the SMTP relay, otherwise a
// no-op sender that only logs a warning.
func New(cfg config.MailConfig, logger *zap.Logger) (*Mailer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	var sender Sender
	switch {
	case cfg.ResendAPIKey != "":
		sender = newResendSender(cfg.ResendAPIKey, cfg.Timeout())
	case cfg.SMTPHost != "":
		sender = newSMTPSender(cfg)
	default:
		logger.Warn("no email transport configured; emails will be skipped")
		sender = noopSender{logger: logger}
	}
	logger.Info("mail transport selected", zap.String("transport", sender.Name()))

	return &Mailer{sender: sender, cfg: cfg, logger: logger, tmpl: tmpl}, nil
}

// SendConfirmation emails a submitter right after a successful insert.
func (m *Mailer) SendConfirmation(ctx context.Context, kind domain.Kind, to string, cities []string) error {
	body, err := m.render("confirmation.gohtml", ConfirmationData{
		IsDemand: kind == domain.KindDemand,
		CityList: cityList(cities),
	})
	if err != nil {
		return err
	}
	return m.send(ctx, Message{
		FromName:  m.cfg.FromName,
		FromEmail: m.cfg.FromEmail,
		To:        to,
		Subject:   "You’re on the Cove early-access list!",
		HTML:      body,
	})
}

// SendApproval emails the referral link once an entry is approved.
func (m *Mailer) SendApproval(ctx context.Context, kind domain.Kind, to string, name *string, referralLink string, cities []string) error {
	greeting := "there"
	if name != nil && strings.TrimSpace(*name) != "" {
		greeting = strings.TrimSpace(*name)
	}
	body, err := m.render("approval.gohtml", ApprovalData{
		IsDemand:     kind == domain.KindDemand,
		Greeting:     greeting,
		CityList:     cityList(cities),
		ReferralLink: referralLink,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, Message{
		FromName:  m.cfg.FromName,
		FromEmail: m.cfg.FromEmail,
		To:        to,
		Subject:   "You’re in! Welcome to Cove",
		HTML:      body,
	})
}

func (m *Mailer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// send bounds each attempt with the configured timeout and retries once on
// transport failure.
func (m *Mailer) send(ctx context.Context, msg Message) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout())
		lastErr = m.sender.Send(attemptCtx, msg)
		cancel()
		if lastErr == nil {
			return nil
		}
		m.logger.Warn("email send attempt failed",
			zap.String("transport", m.sender.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return lastErr
}

func cityList(cities []string) string {
	if len(cities) == 0 {
		return "your target cities"
	}
	return strings.Join(cities, ", ")
}
