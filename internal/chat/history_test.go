package chat

import (
	"strings"
	"testing"
	"time"
)

func TestSeedSourceShape(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	msgs := SeedSource{Now: func() time.Time { return now }}.History("room", 20)

	if len(msgs) != 20 {
		t.Fatalf("expected 20 messages, got %d", len(msgs))
	}

	// oldest first, one minute apart, ending at now
	for i := 1; i < len(msgs); i++ {
		if d := msgs[i].Timestamp.Sub(msgs[i-1].Timestamp); d != time.Minute {
			t.Fatalf("gap at %d is %v, want 1m", i, d)
		}
	}
	if !msgs[len(msgs)-1].Timestamp.Equal(now) {
		t.Fatalf("newest message should sit at now, got %v", msgs[len(msgs)-1].Timestamp)
	}

	// senders alternate, and every message belongs to the room
	for i, m := range msgs {
		if m.RoomID != "room" {
			t.Fatalf("message %d has room %q", i, m.RoomID)
		}
		if m.ID == "" {
			t.Fatalf("message %d has no id", i)
		}
	}
	newest := msgs[len(msgs)-1]
	if newest.Sender != SenderUser || !strings.Contains(newest.Content, "#1") {
		t.Fatalf("newest seed should be user message #1, got %+v", newest)
	}
	if msgs[len(msgs)-2].Sender != SenderAI {
		t.Fatalf("seeds should alternate user/ai")
	}
}
