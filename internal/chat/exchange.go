package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"aichat/internal/ai"
	"aichat/internal/clock"
)

// Notifier is the one-shot user notification surface (the toast analogue).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier reports outcomes through the logger only.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Success(msg string) { n.Log.Info("notify", "kind", "success", "msg", msg) }
func (n LogNotifier) Error(msg string)   { n.Log.Warn("notify", "kind", "error", "msg", msg) }

// Exchange orchestrates one user-initiated send: optimistic commit of the
// user message, the typing window, the provider round trip, and the AI
// commit.
type Exchange struct {
	store    *Store
	provider ai.Provider
	notifier Notifier
	clock    clock.Clock
	log      *slog.Logger
}

func NewExchange(store *Store, provider ai.Provider, notifier Notifier, clk clock.Clock, log *slog.Logger) *Exchange {
	return &Exchange{store: store, provider: provider, notifier: notifier, clock: clk, log: log}
}

// Pending reports whether a reply is still in flight. The surrounding UI
// uses it as the input's disabled flag; nothing at this layer enforces it.
func (e *Exchange) Pending() bool { return e.store.Typing() }

// Send commits the user's message immediately and resolves the AI reply in
// the background. The returned channel closes when the background half is
// done. Empty trimmed text with no image is a no-op and returns ok=false.
func (e *Exchange) Send(ctx context.Context, roomID, content, image string) (Message, <-chan struct{}, bool) {
	if strings.TrimSpace(content) == "" && image == "" {
		done := make(chan struct{})
		close(done)
		return Message{}, done, false
	}

	userMsg := Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    SenderUser,
		Timestamp: e.clock.Now(),
		Image:     image,
		RoomID:    roomID,
	}
	e.store.AddMessage(userMsg)
	e.store.UpdateLastMessage(roomID, userMsg.Content)
	e.store.BeginTyping()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer e.store.EndTyping()

		reply, err := e.provider.Reply(ctx, content)
		if err != nil {
			e.log.Warn("ai reply failed", "room", roomID, "err", err)
			e.notifier.Error("Failed to get AI response. Please try again.")
			return
		}

		// The room may have been deleted while the reply was pending;
		// drop it instead of resurrecting the history.
		if _, ok := e.store.Room(roomID); !ok {
			e.log.Info("dropping reply for deleted room", "room", roomID)
			return
		}

		ts := e.clock.Now()
		if !ts.After(userMsg.Timestamp) {
			ts = userMsg.Timestamp.Add(time.Millisecond)
		}
		aiMsg := Message{
			ID:        uuid.NewString(),
			Content:   reply,
			Sender:    SenderAI,
			Timestamp: ts,
			RoomID:    roomID,
		}
		e.store.AddMessage(aiMsg)
		e.store.UpdateLastMessage(roomID, reply)
		e.notifier.Success("Message sent successfully!")
	}()

	return userMsg, done, true
}
