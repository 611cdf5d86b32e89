package agent

import (
	"testing"
	"time"
)

func TestSessionMessageOrder(t *testing.T) {
	session := NewSession()

	session.AddMessage(RoleUser, "first question")
	session.AddMessage(RoleAssistant, "first answer")
	session.AddMessage(RoleUser, "second question")

	messages := session.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}

	expected := []struct {
		role    string
		content string
	}{
		{RoleUser, "first question"},
		{RoleAssistant, "first answer"},
		{RoleUser, "second question"},
	}
	for i, want := range expected {
		if messages[i].Role != want.role || messages[i].Content != want.content {
			t.Errorf("message %d: expected %s/%q, got %s/%q",
				i, want.role, want.content, messages[i].Role, messages[i].Content)
		}
	}
}

func TestSessionContextMirrorsMessages(t *testing.T) {
	session := NewSession()
	session.AddMessage(RoleUser, "hello")
	session.AddMessage(RoleAssistant, "hi there")

	context := session.Context()
	if len(context) != 2 {
		t.Fatalf("expected 2 context messages, got %d", len(context))
	}
	if context[0].Role != RoleUser || context[0].Content != "hello" {
		t.Errorf("unexpected first context message: %+v", context[0])
	}
	if context[1].Role != RoleAssistant || context[1].Content != "hi there" {
		t.Errorf("unexpected second context message: %+v", context[1])
	}
}

func TestSessionContextEmptyNotNil(t *testing.T) {
	session := NewSession()

	context := session.Context()
	if context == nil {
		t.Error("expected non-nil context for empty session")
	}
	if len(context) != 0 {
		t.Errorf("expected empty context, got %d messages", len(context))
	}
}

func TestSessionContextIsCopy(t *testing.T) {
	session := NewSession()
	session.AddMessage(RoleUser, "original")

	context := session.Context()
	context[0].Content = "mutated"

	if session.Messages()[0].Content != "original" {
		t.Error("mutating the returned context must not affect the session")
	}
}

func TestSessionTimestamps(t *testing.T) {
	session := NewSession()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	session.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	session.AddMessage(RoleUser, "one")
	session.AddMessage(RoleAssistant, "two")

	messages := session.Messages()
	if !messages[0].Timestamp.Before(messages[1].Timestamp) {
		t.Error("expected timestamps to follow insertion order")
	}
}

func TestSessionClear(t *testing.T) {
	session := NewSession()
	session.SetMetadata("topic", "testing")
	session.AddMessage(RoleUser, "hello")
	session.AddMessage(RoleAssistant, "hi")

	id := session.ID()
	session.Clear()

	if session.Len() != 0 {
		t.Errorf("expected empty session after Clear, got %d messages", session.Len())
	}
	if session.ID() != id {
		t.Error("expected conversation ID to survive Clear")
	}
	if value, ok := session.Metadata("topic"); !ok || value != "testing" {
		t.Error("expected metadata to survive Clear")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := NewSession()
	b := NewSession()

	if a.ID() == "" {
		t.Error("expected non-empty session ID")
	}
	if a.ID() == b.ID() {
		t.Error("expected distinct IDs for distinct sessions")
	}
}
