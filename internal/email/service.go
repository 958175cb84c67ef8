package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/careops/clinic-api/internal/config"
)

// Service sends applicant-facing notifications. Senders are called outside
// the mutating transaction and must never affect its outcome.
type Service interface {
	SendRegistrationApproved(ctx context.Context, to, name, tempPassword string) error
	SendRegistrationRejected(ctx context.Context, to, name string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *smtpService) SendRegistrationApproved(_ context.Context, to, name, tempPassword string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour staff registration has been approved. You can sign in with the temporary password below and will be asked to change it on first login.\n\nTemporary password: %s\n",
		name, tempPassword)
	return s.send(to, "Registration approved", body)
}

func (s *smtpService) SendRegistrationRejected(_ context.Context, to, name string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nWe are sorry to inform you that your staff registration was not approved. You can contact the clinic administration for details.\n",
		name)
	return s.send(to, "Registration update", body)
}

type noopService struct{}

// NewNoop returns a sender that discards everything. Used when SMTP is not
// configured and in tests.
func NewNoop() Service {
	return noopService{}
}

func (noopService) SendRegistrationApproved(context.Context, string, string, string) error {
	return nil
}

func (noopService) SendRegistrationRejected(context.Context, string, string) error {
	return nil
}
