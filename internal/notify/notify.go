// Package notify bridges board events to chat platforms (Slack,
// Discord). All delivery is best-effort: failures are logged and never
// reach the mutation path.
package notify

import "context"

// Severity colors for event attachments.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#439fe0"
)

// Event is one formatted notification.
type Event struct {
	Title string
	Body  string
	Color string // sidebar color hint, e.g. ColorSuccess
}

// Notifier is the interface platform-specific implementations satisfy.
type Notifier interface {
	// Send delivers one event to the platform's configured channel.
	Send(ctx context.Context, event Event) error

	// Close releases the underlying client connection.
	Close() error
}
