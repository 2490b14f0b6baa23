package notify

import (
	"context"
	"log/slog"
)

// LogSender logs messages instead of delivering them. It is used when no
// SMTP host is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	s.Logger.InfoContext(ctx, "email not sent, no SMTP host configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("template", msg.Template),
	)
	return nil
}
