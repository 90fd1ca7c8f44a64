package session

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))

	s := m.CreateSession("device-1")
	if s.ID == "" || s.ClientID != "device-1" {
		t.Fatalf("CreateSession: got=%+v", s)
	}
	if got, ok := m.GetSession(s.ID); !ok || got != s {
		t.Fatalf("GetSession: ok=%v", ok)
	}
	if m.Count() != 1 {
		t.Fatalf("Count: want=1 got=%d", m.Count())
	}

	m.EndSession(s.ID)
	if _, ok := m.GetSession(s.ID); ok {
		t.Fatalf("GetSession after EndSession: still present")
	}
	if s.EndTime.IsZero() {
		t.Fatalf("EndSession: end time not set")
	}
	if m.Count() != 0 {
		t.Fatalf("Count: want=0 got=%d", m.Count())
	}
	// ending twice is a no-op
	m.EndSession(s.ID)
}

func TestSubscriptions(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	s := m.CreateSession("device-1")
	other := m.CreateSession("device-2")
	courseID := uuid.New()

	if !m.Subscribe(s.ID, courseID) {
		t.Fatalf("Subscribe: want true")
	}
	if !m.IsSubscribed(s.ID, courseID) {
		t.Fatalf("IsSubscribed: want true")
	}
	if m.IsSubscribed(other.ID, courseID) {
		t.Fatalf("IsSubscribed: other session must not be subscribed")
	}
	if m.Subscribe("missing", courseID) {
		t.Fatalf("Subscribe: unknown session must fail")
	}

	if !m.Unsubscribe(s.ID, courseID) {
		t.Fatalf("Unsubscribe: want true")
	}
	if m.Unsubscribe(s.ID, courseID) {
		t.Fatalf("Unsubscribe twice: want false")
	}

	m.Subscribe(s.ID, courseID)
	m.EndSession(s.ID)
	if m.IsSubscribed(s.ID, courseID) {
		t.Fatalf("IsSubscribed after EndSession: want false")
	}
}
