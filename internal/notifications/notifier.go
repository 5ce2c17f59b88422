package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerhub-backend/internal/shared/telemetry"
)

// Notifier delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Publisher forwards notifications to a message broker.
type Publisher interface {
	Notifier
	Close() error
}

// Fanout stores a notification in the inbox and then forwards it to at most
// one broker. A broker failure is logged and does not fail the call once the
// inbox write succeeded.
type Fanout struct {
	Inbox  Store
	Broker Publisher
	Now    func() time.Time
}

func (f *Fanout) Notify(ctx context.Context, n Notification) error {
	if strings.TrimSpace(n.UserID) == "" {
		return errors.New("notification user id is required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Date.IsZero() {
		n.Date = f.now()
	}
	if n.Type == "" {
		n.Type = TypeSystem
	}

	if f.Inbox != nil {
		if err := f.Inbox.Add(ctx, n); err != nil {
			return err
		}
	}
	if f.Broker != nil {
		if err := f.Broker.Notify(ctx, n); err != nil {
			telemetry.Warn("notification.publish", map[string]any{"notification_id": n.ID, "user_id": n.UserID, "err": err})
		}
	}
	return nil
}

// Close releases the broker connection, if any.
func (f *Fanout) Close() error {
	if f.Broker != nil {
		return f.Broker.Close()
	}
	return nil
}

func (f *Fanout) now() time.Time {
	if f.Now != nil {
		return f.Now().UTC()
	}
	return time.Now().UTC()
}
