package eventbus

import (
	"testing"
	"time"
)

func TestPublishFansOut(t *testing.T) {
	bus := New()
	_, ch1 := bus.Subscribe(1)
	_, ch2 := bus.Subscribe(1)

	bus.PublishNew(EventTypeRunCompleted, "run-1", "payload", map[string]string{"k": "v"})

	for i, ch := range []<-chan *Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != EventTypeRunCompleted || ev.ResourceID != "run-1" {
				t.Errorf("subscriber %d: got %+v", i, ev)
			}
			if ev.ID == "" || ev.CreatedAt.IsZero() {
				t.Errorf("subscriber %d: id and timestamp must be set", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	bus := New()
	_, ch := bus.Subscribe(1)

	bus.PublishNew(EventTypeRunCompleted, "run-1", "", nil)
	bus.PublishNew(EventTypeRunCompleted, "run-2", "", nil)

	ev := <-ch
	if ev.ResourceID != "run-1" {
		t.Errorf("got %s, want run-1", ev.ResourceID)
	}
	select {
	case ev := <-ch:
		t.Errorf("second event should have been dropped, got %s", ev.ResourceID)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New()
	id, ch := bus.Subscribe(1)
	bus.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("channel must be closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.PublishNew(EventTypeRunCompleted, "run-1", "", nil)
}
