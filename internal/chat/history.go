package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistorySource produces one batch of older placeholder messages for a
// room. Batches come back oldest first, ready for PrependMessages.
type HistorySource interface {
	History(roomID string, count int) []Message
}

// SeedSource synthesizes alternating user/ai placeholder messages spaced
// one minute apart, counting back from the current time.
type SeedSource struct {
	Now func() time.Time
}

func (s SeedSource) History(roomID string, count int) []Message {
	now := s.Now()
	msgs := make([]Message, count)
	for i := 0; i < count; i++ {
		content := fmt.Sprintf("This is a sample user message #%d", i+1)
		sender := SenderUser
		if i%2 == 1 {
			content = fmt.Sprintf("This is a sample AI response #%d. I'm here to help you with any questions you might have.", i+1)
			sender = SenderAI
		}
		// Fill back to front: index 0 is newest, so the slice comes out
		// oldest first.
		msgs[count-1-i] = Message{
			ID:        uuid.NewString(),
			Content:   content,
			Sender:    sender,
			Timestamp: now.Add(-time.Duration(i) * time.Minute),
			RoomID:    roomID,
		}
	}
	return msgs
}
