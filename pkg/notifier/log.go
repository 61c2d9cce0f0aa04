package notifier

import (
	"context"
	"log/slog"

	"github.com/avdeev21/accounts/pkg/auth"
)

// Log writes reset tokens to the structured log instead of a delivery
// queue. Development backend: the log line is the delivery channel, so the
// token is included.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (n *Log) PasswordReset(_ context.Context, user auth.User, token string) error {
	n.logger.Info("password reset requested",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email),
		slog.String("token", token),
	)
	return nil
}
