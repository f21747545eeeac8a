package notification

import (
	"context"
	"log/slog"
)

type Channel string
type Priority string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Content holds the per-channel message data. A notification can carry content
// for several channels at once.
type Content struct {
	EmailSubject  string
	EmailHTMLBody string
	SMSText       string
}

// Notification is the universal object used to send any notification.
type Notification struct {
	Recipient string
	Channels  []Channel
	Priority  Priority
	Content   Content
}

// Internal sender interfaces, not exposed outside the package.
type emailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
type smsSender interface {
	Send(ctx context.Context, to, message string) error
}

// Service is the main interface for the notification system.
type Service interface {
	Send(ctx context.Context, n Notification) error
}

type service struct {
	log         *slog.Logger
	emailSender emailSender
	smsSender   smsSender
}

// NewService creates a new notification service.
func NewService(log *slog.Logger, emailSender emailSender, smsSender smsSender) Service {
	return &service{
		log:         log,
		emailSender: emailSender,
		smsSender:   smsSender,
	}
}

// Send dispatches the notification to each requested channel. Delivery is
// fire-and-forget: failures are logged for monitoring, never returned to the
// request path.
func (s *service) Send(ctx context.Context, n Notification) error {
	for _, channel := range n.Channels {
		go func(ch Channel) {
			var err error
			switch ch {
			case ChannelEmail:
				s.log.Info("dispatching email notification", "recipient", n.Recipient)
				err = s.emailSender.Send(ctx, n.Recipient, n.Content.EmailSubject, n.Content.EmailHTMLBody)
			case ChannelSMS:
				s.log.Info("dispatching sms notification", "recipient", n.Recipient)
				err = s.smsSender.Send(ctx, n.Recipient, n.Content.SMSText)
			default:
				s.log.Warn("unsupported notification channel", "channel", ch)
			}
			if err != nil {
				s.log.Error("failed to send notification", "channel", ch, "recipient", n.Recipient, "error", err)
			}
		}(channel)
	}
	return nil
}
