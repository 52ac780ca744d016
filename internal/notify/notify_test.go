package notify

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(0)
	r.Notify("one", core.SeverityInfo)
	r.Notify("two", core.SeverityUrgent)

	events := r.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events", len(events))
	}
	if events[0].Message != "one" || events[1].Severity != core.SeverityUrgent {
		t.Fatalf("unexpected events: %+v", events)
	}

	r.Reset()
	if len(r.Events()) != 0 {
		t.Fatal("reset should drop events")
	}
}

func TestRecorderCapped(t *testing.T) {
	r := NewRecorder(2)
	r.Notify("a", core.SeverityInfo)
	r.Notify("b", core.SeverityInfo)
	r.Notify("c", core.SeverityInfo)
	events := r.Events()
	if len(events) != 2 || events[0].Message != "b" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestAnnouncerDelaysRepeats(t *testing.T) {
	rec := NewRecorder(0)
	a := NewAnnouncer(rec)
	a.delay = 10 * time.Millisecond

	a.Notify("same", core.SeverityAdvisory)
	a.Notify("same", core.SeverityAdvisory)

	// The repeat is deferred, not dropped.
	if got := len(rec.Events()); got != 1 {
		t.Fatalf("expected 1 immediate delivery, got %d", got)
	}

	deadline := time.Now().Add(time.Second)
	for len(rec.Events()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("repeated message was never re-announced")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAnnouncerDistinctMessagesImmediate(t *testing.T) {
	rec := NewRecorder(0)
	a := NewAnnouncer(rec)

	a.Notify("first", core.SeverityInfo)
	a.Notify("second", core.SeverityInfo)
	if got := len(rec.Events()); got != 2 {
		t.Fatalf("expected immediate delivery of distinct messages, got %d", got)
	}
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(0), NewRecorder(0)
	Multi{a, b}.Notify("x", core.SeverityInfo)
	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatal("fan-out missed a target")
	}
}
