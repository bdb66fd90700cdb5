package storage

import (
	"fmt"
	"testing"
)

func TestAppendAndListMessages(t *testing.T) {
	s := openTestStore(t)
	mustCreateChat(t, s, "c1", "t")

	for i := range 5 {
		if _, err := s.AppendMessage("c1", RoleUser, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	msgs, err := s.ListMessages("c1", 100)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 5 {
		t.Fatalf("len = %d, want 5", len(msgs))
	}
	// Oldest first; ids strictly ascending because all timestamps coincide.
	for i := 1; i < len(msgs); i++ {
		if msgs[i].ID <= msgs[i-1].ID {
			t.Errorf("messages out of insertion order at %d: %d then %d", i, msgs[i-1].ID, msgs[i].ID)
		}
	}
	if msgs[0].Content != "msg 0" || msgs[4].Content != "msg 4" {
		t.Errorf("contents out of order: first=%q last=%q", msgs[0].Content, msgs[4].Content)
	}
}

func TestListMessagesLimit(t *testing.T) {
	s := openTestStore(t)
	mustCreateChat(t, s, "c1", "t")

	for i := range 10 {
		if _, err := s.AppendMessage("c1", RoleUser, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	msgs, err := s.ListMessages("c1", 3)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[0].Content != "msg 0" {
		t.Errorf("limited listing should start at the oldest, got %q", msgs[0].Content)
	}
}

// TestRecentMessagesWindow verifies the sliding window: the most recent n
// rows, returned oldest first.
func TestRecentMessagesWindow(t *testing.T) {
	s := openTestStore(t)
	mustCreateChat(t, s, "c1", "t")

	for i := range 10 {
		if _, err := s.AppendMessage("c1", RoleUser, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	msgs, err := s.RecentMessages("c1", 4)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("len = %d, want 4", len(msgs))
	}
	want := []string{"msg 6", "msg 7", "msg 8", "msg 9"}
	for i, m := range msgs {
		if m.Content != want[i] {
			t.Errorf("window[%d] = %q, want %q", i, m.Content, want[i])
		}
	}
}

func TestNewChatHasNoMessages(t *testing.T) {
	s := openTestStore(t)
	mustCreateChat(t, s, "c1", "t")

	msgs, err := s.ListMessages("c1", 100)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("fresh chat has %d messages, want 0", len(msgs))
	}
}
