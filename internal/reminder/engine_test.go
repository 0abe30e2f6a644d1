package reminder

import (
	"testing"
	"time"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
)

func TestEngineEmitsInFireOrder(t *testing.T) {
	engine := NewEngine(0, 8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.ScheduleEvent(model.Event{ID: "later", Title: "Later", StartAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.ScheduleEvent(model.Event{ID: "sooner", Title: "Sooner", StartAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitAlert(t, engine.C(), time.Second)
	second := waitAlert(t, engine.C(), time.Second)
	if first.EventID != "sooner" || second.EventID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.EventID, second.EventID)
	}
}

func TestEngineAppliesLeadTime(t *testing.T) {
	lead := 50 * time.Millisecond
	engine := NewEngine(lead, 4)
	engine.Start()
	defer engine.Stop()

	start := time.Now().Add(80 * time.Millisecond)
	if err := engine.ScheduleEvent(model.Event{ID: "evt", Title: "Quiz", StartAt: start}); err != nil {
		t.Fatalf("schedule event: %v", err)
	}

	alert := waitAlert(t, engine.C(), time.Second)
	if got := start.Sub(alert.FireAt); got != lead {
		t.Fatalf("FireAt lead = %v, want %v", got, lead)
	}
	if time.Now().After(start.Add(20 * time.Millisecond)) {
		t.Fatal("alert arrived after the event start")
	}
}

func TestEngineSkipsPastEvents(t *testing.T) {
	engine := NewEngine(time.Hour, 4)
	engine.Start()
	defer engine.Stop()

	if err := engine.ScheduleEvent(model.Event{ID: "past", Title: "Done", StartAt: time.Now().Add(-time.Minute)}); err != nil {
		t.Fatalf("schedule past event: %v", err)
	}

	select {
	case a := <-engine.C():
		t.Fatalf("unexpected alert for past event: %+v", a)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEngineCancelRemovesQueuedAlerts(t *testing.T) {
	engine := NewEngine(0, 4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.ScheduleEvent(model.Event{ID: "doomed", Title: "Doomed", StartAt: now.Add(60 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule doomed: %v", err)
	}
	if err := engine.ScheduleEvent(model.Event{ID: "kept", Title: "Kept", StartAt: now.Add(90 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule kept: %v", err)
	}
	engine.Cancel("doomed")

	alert := waitAlert(t, engine.C(), time.Second)
	if alert.EventID != "kept" {
		t.Fatalf("first alert = %s, want kept", alert.EventID)
	}
	select {
	case a := <-engine.C():
		t.Fatalf("unexpected second alert: %+v", a)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduleValidatesStartTime(t *testing.T) {
	engine := NewEngine(0, 1)
	if err := engine.ScheduleEvent(model.Event{ID: "bad"}); err != ErrInvalidFireTime {
		t.Fatalf("expected ErrInvalidFireTime, got %v", err)
	}
}

func waitAlert(t *testing.T, ch <-chan Alert, timeout time.Duration) Alert {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for alert")
		return Alert{}
	}
}
