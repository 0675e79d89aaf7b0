package ai

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"aichat/internal/clock"
)

var cannedReplies = []string{
	"That's an interesting question! Let me think about that for a moment.",
	"I understand what you're asking. Here's my perspective on that topic.",
	"Great point! I can help you with that. Let me provide some insights.",
	"I see what you mean. That's definitely worth exploring further.",
	"Thanks for sharing that with me. I have some thoughts on this.",
	"That's a fascinating topic. Let me break this down for you.",
	"I appreciate your question. Here's what I think about that.",
	"Good question! There are several ways to approach this.",
	"I'm glad you asked about that. Let me explain my understanding.",
	"That's something I can definitely help you with. Here's my take.",
}

// CannedProvider answers with a uniformly random reply from a fixed pool
// after a random delay inside [MinDelay, MaxDelay). It never fails on its
// own; only context cancellation ends the call early.
type CannedProvider struct {
	MinDelay time.Duration
	MaxDelay time.Duration

	clock clock.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

func NewCannedProvider(clk clock.Clock, minDelay, maxDelay time.Duration) *CannedProvider {
	if minDelay <= 0 {
		minDelay = time.Second
	}
	if maxDelay <= minDelay {
		maxDelay = minDelay + 3*time.Second
	}
	return &CannedProvider{
		MinDelay: minDelay,
		MaxDelay: maxDelay,
		clock:    clk,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *CannedProvider) Reply(ctx context.Context, userText string) (string, error) {
	_ = userText // the demo reply does not depend on the prompt

	p.mu.Lock()
	delay := p.MinDelay + time.Duration(p.rng.Int63n(int64(p.MaxDelay-p.MinDelay)))
	reply := cannedReplies[p.rng.Intn(len(cannedReplies))]
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.clock.After(delay):
	}
	return reply, nil
}
