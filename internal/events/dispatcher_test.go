package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string

	d.Subscribe(EventLoginFailed, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.Subject)
		return nil
	})
	d.Subscribe(EventLoginFailed, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.Subject)
		return nil
	})
	d.Subscribe(EventLoginSucceeded, func(context.Context, Event) error {
		t.Fatalf("handler for another type must not run")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventLoginFailed, Subject: "a@college.edu"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 2 || got[0] != "first:a@college.edu" || got[1] != "second:a@college.edu" {
		t.Fatalf("unexpected deliveries %v", got)
	}
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	errA := errors.New("a failed")
	ran := false

	d.Subscribe(EventUserCreated, func(context.Context, Event) error { return errA })
	d.Subscribe(EventUserCreated, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventUserCreated})
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ran {
		t.Fatalf("later handlers must still run")
	}
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventAccessDecision}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
