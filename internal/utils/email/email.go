package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendWelcome sends the registration welcome email. When no SMTP host is
// configured the send is skipped silently (demo setups).
func (s *Sender) SendWelcome(to, firstName string) error {
	if s.cfg.SMTPHost == "" {
		s.logger.Debugf("SMTP not configured, skipping welcome email to %s", to)
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to FinCoach"

	name := firstName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your FinCoach account is ready. A demo checking account has been opened for you\n"+
			"with a starting balance so you can try paychecks, budgets and simulated trades.\n\n"+
			"Check in daily to grow your streak.\n\n"+
			"Best regards,\nFinCoach",
		name,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send welcome email to %s: %v", to, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	s.logger.Infof("Welcome email sent to %s", to)
	return nil
}
