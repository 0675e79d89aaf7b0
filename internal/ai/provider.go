package ai

import "context"

// Provider turns the user's text into a reply. Implementations decide
// their own latency; callers must treat the call as a blocking network
// round trip.
type Provider interface {
	Reply(ctx context.Context, userText string) (string, error)
}
