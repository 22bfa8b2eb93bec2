package auth

import (
	"context"
	"log/slog"
	"net/url"
)

// ResetNotifier delivers a password reset token to the account owner.
type ResetNotifier interface {
	NotifyReset(ctx context.Context, email, token string) error
}

// LogNotifier writes reset links to the log. It is meant for development, where no mail
// transport is configured.
type LogNotifier struct {
	logger  *slog.Logger
	baseURL string
	enabled bool
}

// NewLogNotifier creates a notifier that logs links under baseURL when enabled is true.
func NewLogNotifier(logger *slog.Logger, baseURL string, enabled bool) *LogNotifier {
	return &LogNotifier{logger: logger, baseURL: baseURL, enabled: enabled}
}

// NotifyReset implements ResetNotifier.
func (n *LogNotifier) NotifyReset(ctx context.Context, email, token string) error {
	if !n.enabled {
		n.logger.InfoContext(ctx, "password reset requested", "email", email)
		return nil
	}
	link := n.baseURL + "/admin/reset-password?token=" + url.QueryEscape(token)
	n.logger.InfoContext(ctx, "password reset link", "email", email, "link", link)
	return nil
}
