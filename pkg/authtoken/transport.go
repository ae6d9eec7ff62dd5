package authtoken

import "context"

// Transport propagates token changes to the operator's other contexts.
// Delivery is best-effort and may duplicate; Store.handle is idempotent.
type Transport interface {
	Publish(ctx context.Context, m Message) error
	// Subscribe delivers incoming messages to fn until ctx is cancelled.
	Subscribe(ctx context.Context, fn func(Message)) error
}

// NoopTransport is the single-context transport: publishes vanish and
// subscription just waits for cancellation.
type NoopTransport struct{}

func (NoopTransport) Publish(context.Context, Message) error { return nil }

func (NoopTransport) Subscribe(ctx context.Context, _ func(Message)) error {
	<-ctx.Done()
	return ctx.Err()
}
