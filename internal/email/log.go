package email

import "github.com/clinicbook/clinicbook/internal/observability/logger"

// LogSender writes messages to the log instead of dispatching them. Used in
// dev when no SMTP server is configured.
type LogSender struct{}

func (LogSender) Send(to, subject, htmlBody, textBody string) error {
	logger.L().Info("email (log sender, not dispatched)",
		logger.Component("LogSender"),
		logger.String("to", to),
		logger.String("subject", subject),
		logger.String("text", textBody),
	)
	return nil
}
