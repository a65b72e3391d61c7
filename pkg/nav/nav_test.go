package nav

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldrover/waypointd/pkg/geometry"
)

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateSucceeded, StateAborted, StatePreempted} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	if State("active").Terminal() {
		t.Error("active should not be terminal")
	}
}

func TestGoalMessageRoundTrip(t *testing.T) {
	goal := Goal{
		ID:          "g-1",
		TargetFrame: "map",
		Position:    geometry.Point{X: 1, Y: 2},
		Orientation: geometry.Identity(),
	}

	msg, err := NewMessage(TypeGoal, goal)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	data, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	parsed, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if parsed.Type != TypeGoal {
		t.Errorf("type: got %q, want %q", parsed.Type, TypeGoal)
	}

	var decoded Goal
	if err := parsed.ParseData(&decoded); err != nil {
		t.Fatalf("ParseData: %v", err)
	}
	if decoded != goal {
		t.Errorf("goal: got %+v, want %+v", decoded, goal)
	}
}

func TestParseMessageRejectsGarbage(t *testing.T) {
	if _, err := ParseMessage([]byte("not json")); err == nil {
		t.Error("expected error for malformed frame")
	}
}

func TestMockCompletesInOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMock()

	h1, err := m.SendGoal(ctx, Goal{TargetFrame: "map", Position: geometry.Point{X: 1}})
	if err != nil {
		t.Fatalf("SendGoal: %v", err)
	}
	h2, err := m.SendGoal(ctx, Goal{TargetFrame: "map", Position: geometry.Point{X: 2}})
	if err != nil {
		t.Fatalf("SendGoal: %v", err)
	}
	if m.InFlight() != 2 {
		t.Fatalf("in flight: got %d, want 2", m.InFlight())
	}

	m.Complete(StateSucceeded)
	out, err := h1.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.State != StateSucceeded {
		t.Errorf("state: got %q, want %q", out.State, StateSucceeded)
	}

	m.Complete(StateAborted)
	out, err = h2.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.State != StateAborted {
		t.Errorf("state: got %q, want %q", out.State, StateAborted)
	}

	if m.Complete(StateSucceeded) {
		t.Error("Complete with nothing in flight should report false")
	}
}

func TestMockWaitHonorsContext(t *testing.T) {
	m := NewMock()
	h, err := m.SendGoal(context.Background(), Goal{TargetFrame: "map"})
	if err != nil {
		t.Fatalf("SendGoal: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err = h.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait: got %v, want deadline exceeded", err)
	}
}

func TestAutoMockCompletesImmediately(t *testing.T) {
	ctx := context.Background()
	m := NewAutoMock()

	h, err := m.SendGoal(ctx, Goal{TargetFrame: "map"})
	if err != nil {
		t.Fatalf("SendGoal: %v", err)
	}
	out, err := h.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.State != StateSucceeded {
		t.Errorf("state: got %q, want %q", out.State, StateSucceeded)
	}
}
