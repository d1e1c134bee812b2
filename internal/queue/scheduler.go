package queue

import (
	"context"
	"time"
)

const messageVersion = 1

// Scheduler adapts a queue client to the ingestion service's scheduling
// interface: each scheduled document becomes one indexing job message.
type Scheduler struct {
	Client Client
	Now    func() time.Time
}

// NewScheduler constructs a Scheduler.
func NewScheduler(client Client) *Scheduler {
	return &Scheduler{Client: client, Now: time.Now}
}

// Schedule enqueues an indexing job for the document.
func (s *Scheduler) Schedule(ctx context.Context, documentID string) error {
	return s.Client.Send(ctx, Message{
		DocumentID: documentID,
		RequestID:  requestIDFromContext(ctx),
		EnqueuedAt: s.Now().UTC().Format(time.RFC3339),
		Version:    messageVersion,
	})
}

type requestIDKey struct{}

// WithRequestID tags the context with the originating request id so queue
// messages can be traced back to the API call.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
