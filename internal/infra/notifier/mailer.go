package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/config"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/logger"
)

// SMTPNotifier delivers password reset links over SMTP.
type SMTPNotifier struct {
	cfg config.SMTPSettings
	log *zap.Logger
}

// NewSMTPNotifier constructs an SMTP-backed notifier.
func NewSMTPNotifier(cfg config.SMTPSettings, log *zap.Logger) *SMTPNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &SMTPNotifier{cfg: cfg, log: log}
}

// SendPasswordReset delivers the reset link to the given address.
func (n *SMTPNotifier) SendPasswordReset(_ context.Context, email, link string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Reset your Referral Network Hub password")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>We received a request to reset your password.</p>
<p><a href=%q>Reset password</a></p>
<p>The link is valid for 10 minutes. If you did not request this, you can ignore this email.</p>`, link))

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	n.log.Info("password reset mail sent", zap.String("email", logger.MaskEmail(email)))
	return nil
}

// NoopNotifier logs instead of sending. Used when SMTP is not configured.
type NoopNotifier struct {
	log *zap.Logger
}

// NewNoopNotifier constructs a logging-only notifier.
func NewNoopNotifier(log *zap.Logger) *NoopNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &NoopNotifier{log: log}
}

func (n *NoopNotifier) SendPasswordReset(_ context.Context, email, _ string) error {
	n.log.Info("password reset mail skipped (smtp not configured)",
		zap.String("email", logger.MaskEmail(email)),
	)
	return nil
}
