package event

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe(TypeDialogueMessage, func(e Event) {
		called = true
	})

	if id == "" {
		t.Error("Subscribe should return a non-empty ID")
	}
	if called {
		t.Error("Handler should not be called until an event is published")
	}

	bus.Publish(NewDialogueStartedEvent("d-1", "Alice", "Bob", 8))
	if called {
		t.Error("Handler called for a different event type")
	}
	bus.Publish(NewDialogueMessageEvent("d-1", 1, "Alice", "Bob", "PROPOSE", "Engine8", "Engine8"))
	if !called {
		t.Error("Handler not called after publishing its event type")
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	var received Event
	bus.Subscribe(TypeDialogueMessage, func(e Event) {
		received = e
	})

	bus.Publish(NewDialogueMessageEvent("d-1", 1, "Alice", "Bob", "PROPOSE", "Engine8", "Engine8"))

	msg, ok := received.(DialogueMessageEvent)
	if !ok {
		t.Fatalf("received %T, want DialogueMessageEvent", received)
	}
	if msg.From != "Alice" || msg.Performative != "PROPOSE" || msg.Seq != 1 {
		t.Errorf("unexpected event %+v", msg)
	}
	if msg.Timestamp().IsZero() {
		t.Error("Timestamp() should be set")
	}
}

func TestBus_OnlyMatchingType(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe(TypeDialogueEnded, func(e Event) { count++ })
	bus.Publish(NewDialogueStartedEvent("d-1", "Alice", "Bob", 8))

	if count != 0 {
		t.Errorf("handler called %d times for another type", count)
	}
}

func TestBus_WildcardAfterSpecific(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(e Event) { order = append(order, "all") })
	bus.Subscribe(TypeDialogueEnded, func(e Event) { order = append(order, "specific") })

	bus.Publish(NewDialogueEndedEvent("d-1", "COMMITTED", "Engine5", 10, false))

	if strings.Join(order, ",") != "specific,all" {
		t.Errorf("dispatch order = %v, want [specific all]", order)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	first := bus.Subscribe(TypeDialogueMessage, func(e Event) { count++ })
	bus.Subscribe(TypeDialogueMessage, func(e Event) { count += 10 })

	if !bus.Unsubscribe(first) {
		t.Fatal("Unsubscribe() = false for a live subscription")
	}
	if bus.Unsubscribe(first) {
		t.Error("Unsubscribe() = true for a removed subscription")
	}

	bus.Publish(NewDialogueMessageEvent("d-1", 1, "A", "B", "ASK_WHY", "X", "X"))
	if count != 10 {
		t.Errorf("count = %d, want 10", count)
	}
}

func TestBus_PanicRecovery(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus().WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	reached := false
	bus.Subscribe(TypeDialogueExhausted, func(e Event) { panic("boom") })
	bus.Subscribe(TypeDialogueExhausted, func(e Event) { reached = true })

	bus.Publish(NewDialogueExhaustedEvent("d-1", "Alice", "Engine8", false))

	if !reached {
		t.Error("handler after a panicking one was not called")
	}
	if !strings.Contains(buf.String(), "event handler panicked") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(NewDialogueMessageEvent("d", i, "A", "B", "ARGUE", "X", "X <- COST=GOOD"))
		}()
	}
	wg.Wait()

	if count != 20 {
		t.Errorf("count = %d, want 20", count)
	}
}
