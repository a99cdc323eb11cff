// Package notify delivers reply notifications. Delivery is best-effort:
// sends run in their own goroutine, failures are logged and swallowed,
// and a failed send never fails the reply that triggered it.
package notify

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"tribune/internal/config"
	"tribune/internal/domain/services"
)

// Mailer sends reply notifications over SMTP. When the SMTP settings are
// incomplete the mailer stays constructed but disabled, so callers never
// need a nil check.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	siteURL  string
	enabled  bool
	logger   *slog.Logger
}

// NewMailer builds a mailer from config. Logs once when disabled.
func NewMailer(cfg *config.Config, logger *slog.Logger) services.Notifier {
	enabled := cfg.SMTPHost != "" && cfg.SMTPUser != "" && cfg.SMTPPass != "" && cfg.SMTPFrom != ""
	if !enabled {
		logger.Info("reply notifications disabled: incomplete SMTP settings")
	}

	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.SMTPFrom,
		siteURL:  cfg.SiteURL,
		enabled:  enabled,
		logger:   logger,
	}
}

// NotifyReply emails the parent comment's author. Fire-and-forget.
func (m *Mailer) NotifyReply(n *services.ReplyNotification) {
	if !m.enabled || n.RecipientEmail == "" {
		return
	}

	subject := fmt.Sprintf("New reply to your comment on %q", n.ArticleTitle)
	body := fmt.Sprintf("Hi %s,\r\n\r\n%s replied to your comment:\r\n\r\n%s\r\n\r\nView the discussion: %s/articles/%s\r\n",
		n.RecipientUsername, n.ReplierUsername, n.Excerpt, m.siteURL, n.ArticleID)

	go m.send(n.RecipientEmail, subject, body)
}

func (m *Mailer) send(to, subject, body string) {
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s", to, m.from, subject, body))

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		m.logger.Warn("reply notification failed", "to", to, "error", err)
		return
	}
	m.logger.Debug("reply notification sent", "to", to)
}
