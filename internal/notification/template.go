package notification

import (
	"context"
	"fmt"

	"github.com/medlinkhq/medlink/internal/notification/templates"
)

// SendTemplate renders a scenario template and dispatches the result through
// the notification service. The typed handle ties the template to its data
// shape at compile time.
func SendTemplate[T any](ctx context.Context, svc Service, r templates.Renderer, h templates.Handle[T], recipient string, channels []Channel, priority Priority, data T) error {
	rendered, err := templates.Render(ctx, r, h, data)
	if err != nil {
		return fmt.Errorf("render notification template %q: %w", h.ID(), err)
	}
	return svc.Send(ctx, Notification{
		Recipient: recipient,
		Channels:  channels,
		Priority:  priority,
		Content: Content{
			EmailSubject:  rendered.Subject,
			EmailHTMLBody: rendered.EmailHTML,
			SMSText:       rendered.SMSText,
		},
	})
}
