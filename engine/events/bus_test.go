package events

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/fidoquest/types"
)

func fixedBus() (*Bus, *bytes.Buffer) {
	var buf bytes.Buffer
	b := NewBus(log.New(&buf, "", 0))
	b.Now = func() time.Time { return time.UnixMilli(1000) }
	return b, &buf
}

func TestPublish_ExactAndWildcard(t *testing.T) {
	b, _ := fixedBus()
	var got []string

	b.Subscribe(types.EventWildcard, func(e types.Event) { got = append(got, "wild:"+e.Type) })
	b.Subscribe(types.EventModemInitialized, func(e types.Event) { got = append(got, "exact1") })
	b.Subscribe(types.EventModemInitialized, func(e types.Event) { got = append(got, "exact2") })
	b.Subscribe(types.EventBBSConnected, func(e types.Event) { got = append(got, "other") })

	b.Publish(types.EventModemInitialized, nil)

	want := []string{"exact1", "exact2", "wild:" + types.EventModemInitialized}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("delivery order = %v, want %v", got, want)
	}
}

func TestPublish_StampsTypeAndTimestamp(t *testing.T) {
	b, _ := fixedBus()
	var evt types.Event
	b.Subscribe(types.EventFileDownloaded, func(e types.Event) { evt = e })

	payload := map[string]any{"item": "tmail", "source": "Moscow Station"}
	b.Publish(types.EventFileDownloaded, payload)

	if evt.Type != types.EventFileDownloaded {
		t.Errorf("Type = %q", evt.Type)
	}
	if evt.Timestamp != 1000 {
		t.Errorf("Timestamp = %d, want 1000", evt.Timestamp)
	}
	if evt.Data["item"] != "tmail" || evt.Data["source"] != "Moscow Station" {
		t.Errorf("Data = %v", evt.Data)
	}

	// Published payload is copied; mutating the caller's map is not visible.
	payload["item"] = "golded"
	if evt.Data["item"] != "tmail" {
		t.Error("event data aliased the caller's payload")
	}
}

func TestPublish_PanickingSubscriberDoesNotStopDelivery(t *testing.T) {
	b, logs := fixedBus()
	reached := false

	b.Subscribe(types.EventMailTossed, func(types.Event) { panic("boom") })
	b.Subscribe(types.EventMailTossed, func(types.Event) { reached = true })

	b.Publish(types.EventMailTossed, nil)

	if !reached {
		t.Fatal("second subscriber was not called after the first panicked")
	}
	if !strings.Contains(logs.String(), "boom") {
		t.Errorf("expected panic to be logged, got %q", logs.String())
	}
}

func TestUnsubscribe(t *testing.T) {
	b, _ := fixedBus()
	calls := 0
	unsub := b.Subscribe(types.EventDayChanged, func(types.Event) { calls++ })

	b.Publish(types.EventDayChanged, nil)
	unsub()
	b.Publish(types.EventDayChanged, nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := b.SubscriberCount(types.EventDayChanged); n != 0 {
		t.Errorf("SubscriberCount = %d after unsubscribe", n)
	}
	// Double unsubscribe is harmless.
	unsub()
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	b, _ := fixedBus()
	var order []string
	var unsubSecond func()

	b.Subscribe(types.EventPhaseChanged, func(types.Event) {
		order = append(order, "first")
		unsubSecond()
	})
	unsubSecond = b.Subscribe(types.EventPhaseChanged, func(types.Event) {
		order = append(order, "second")
	})
	b.Subscribe(types.EventPhaseChanged, func(types.Event) {
		order = append(order, "third")
	})

	b.Publish(types.EventPhaseChanged, nil)

	if strings.Join(order, ",") != "first,third" {
		t.Errorf("order = %v, want [first third]", order)
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	b, _ := fixedBus()
	lateCalls := 0
	b.Subscribe(types.EventZMHStarted, func(types.Event) {
		b.Subscribe(types.EventZMHStarted, func(types.Event) { lateCalls++ })
	})

	b.Publish(types.EventZMHStarted, nil)
	if lateCalls != 0 {
		t.Fatalf("subscriber added mid-dispatch ran in the same publish")
	}
	b.Publish(types.EventZMHStarted, nil)
	if lateCalls != 1 {
		t.Errorf("lateCalls = %d, want 1", lateCalls)
	}
}

func TestReentrantPublish(t *testing.T) {
	b, _ := fixedBus()
	var seen []string

	b.Subscribe(types.EventWildcard, func(e types.Event) {
		seen = append(seen, e.Type)
		if e.Type == types.EventQuestCompleted {
			b.Publish(types.EventActChanged, map[string]any{"act": 2})
		}
	})

	b.Publish(types.EventQuestCompleted, nil)

	want := types.EventQuestCompleted + "," + types.EventActChanged
	if strings.Join(seen, ",") != want {
		t.Errorf("seen = %v", seen)
	}
}

func TestSubscribeMultiple(t *testing.T) {
	b, _ := fixedBus()
	calls := 0
	unsub := b.SubscribeMultiple([]string{types.EventDayChanged, types.EventPhaseChanged}, func(types.Event) { calls++ })

	b.Publish(types.EventDayChanged, nil)
	b.Publish(types.EventPhaseChanged, nil)
	unsub()
	b.Publish(types.EventDayChanged, nil)
	b.Publish(types.EventPhaseChanged, nil)

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestClear(t *testing.T) {
	b, _ := fixedBus()
	calls := 0
	b.Subscribe(types.EventWildcard, func(types.Event) { calls++ })
	b.Subscribe(types.EventGameOver, func(types.Event) { calls++ })

	b.Clear()
	b.Publish(types.EventGameOver, nil)

	if calls != 0 {
		t.Errorf("calls = %d after Clear", calls)
	}
}
