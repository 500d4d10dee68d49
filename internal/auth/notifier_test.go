package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNotifierSubscribeAndUnsubscribe(t *testing.T) {
	notifier := NewNotifier()
	userID := uuid.New()

	var seen []Event
	unsubscribe := notifier.Subscribe(func(_ context.Context, e Event) {
		seen = append(seen, e)
	})

	notifier.Publish(context.Background(), Event{Type: EventLogin, UserID: userID})
	if len(seen) != 1 || seen[0].UserID != userID {
		t.Fatalf("expected one event, got %v", seen)
	}

	unsubscribe()
	notifier.Publish(context.Background(), Event{Type: EventLogout, UserID: userID})
	if len(seen) != 1 {
		t.Fatalf("unsubscribed handler must not fire, got %v", seen)
	}
}

func TestNotifierNilHandler(t *testing.T) {
	notifier := NewNotifier()
	unsubscribe := notifier.Subscribe(nil)
	unsubscribe()
	notifier.Publish(context.Background(), Event{Type: EventLogin, UserID: uuid.New()})
}
