package event

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/radiorambo/fresh/internal/event/topic"
)

func startedBus(t *testing.T) Bus {
	t.Helper()
	b := NewBus()
	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = b.Stop(context.Background()) })
	return b
}

func TestSubscriberReceivesMatchingEvents(t *testing.T) {
	b := startedBus(t)
	s := NewSubscriber(b)

	var calls atomic.Int32
	_, err := s.SubscribeFunc("buffer.*", func(context.Context, any) error {
		calls.Add(1)
		return nil
	}, WithDeliveryMode(DeliverySync))
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Publish(context.Background(), NewEvent(topic.Topic("buffer.saved"), "x", "test")); err != nil {
		t.Fatal(err)
	}
	_ = b.Publish(context.Background(), NewEvent(topic.Topic("cursor.moved"), "x", "test"))

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want only the matching topic", calls.Load())
	}
}

func TestSubscriberUnsubscribe(t *testing.T) {
	b := startedBus(t)
	s := NewSubscriber(b)

	var calls atomic.Int32
	sub, err := s.SubscribeFunc("a.b", func(context.Context, any) error {
		calls.Add(1)
		return nil
	}, WithDeliveryMode(DeliverySync))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Unsubscribe(sub); err != nil {
		t.Fatal(err)
	}
	_ = b.Publish(context.Background(), NewEvent(topic.Topic("a.b"), "x", "test"))
	if calls.Load() != 0 {
		t.Error("unsubscribed handler still ran")
	}
	if s.Count() != 0 {
		t.Errorf("count = %d", s.Count())
	}
}

func TestSubscribeOnce(t *testing.T) {
	b := startedBus(t)
	s := NewSubscriber(b)

	var calls atomic.Int32
	_, err := s.SubscribeOnceFunc("one.shot", func(context.Context, any) error {
		calls.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		_ = b.Publish(context.Background(), NewEvent(topic.Topic("one.shot"), i, "test"))
	}

	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want exactly 1", calls.Load())
	}
}

func TestSubscribeWithFilter(t *testing.T) {
	b := startedBus(t)
	s := NewSubscriber(b)

	var calls atomic.Int32
	_, err := s.SubscribeWithFilter("x.*",
		HandlerFunc(func(context.Context, any) error {
			calls.Add(1)
			return nil
		}),
		FilterBySource("wanted"),
		WithDeliveryMode(DeliverySync),
	)
	if err != nil {
		t.Fatal(err)
	}

	_ = b.Publish(context.Background(), NewEvent(topic.Topic("x.y"), "p", "wanted"))
	_ = b.Publish(context.Background(), NewEvent(topic.Topic("x.y"), "p", "other"))

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 filtered delivery", calls.Load())
	}
}

func TestSubscribePayloadTypes(t *testing.T) {
	b := startedBus(t)
	s := NewSubscriber(b)

	var got atomic.Int64
	_, err := SubscribePayload(s, "typed.event", func(_ context.Context, n int) error {
		got.Store(int64(n))
		return nil
	}, WithDeliveryMode(DeliverySync))
	if err != nil {
		t.Fatal(err)
	}

	_ = b.Publish(context.Background(), NewEvent(topic.Topic("typed.event"), 7, "test"))
	if got.Load() != 7 {
		t.Errorf("payload = %d", got.Load())
	}
}

func TestSubscriberClose(t *testing.T) {
	b := startedBus(t)
	s := NewSubscriber(b)

	for i := 0; i < 3; i++ {
		if _, err := s.SubscribeFunc("t.x", func(context.Context, any) error { return nil }); err != nil {
			t.Fatal(err)
		}
	}
	if s.Count() != 3 {
		t.Fatalf("count = %d", s.Count())
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 0 {
		t.Errorf("count after close = %d", s.Count())
	}
}
