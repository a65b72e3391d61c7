package hub

import (
	"testing"
	"time"
)

func TestBroadcastLatchesLastMessage(t *testing.T) {
	h := New("test")
	go h.Run()

	if _, ok := h.Last(); ok {
		t.Fatal("fresh hub should have no latched message")
	}

	if err := h.BroadcastJSON(map[string]int{"waypoints": 2}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		if msg, ok := h.Last(); ok {
			if string(msg.Data) != `{"waypoints":2}` {
				t.Errorf("latched: got %s", msg.Data)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("message never latched")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBroadcastJSONRejectsUnencodable(t *testing.T) {
	h := New("test")
	if err := h.BroadcastJSON(func() {}); err == nil {
		t.Error("expected error for unencodable value")
	}
}
