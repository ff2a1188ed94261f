package emit

import "context"

// NullEmitter implements Emitter by discarding every event. It is the
// Options.Emitter default: zero overhead, safe for concurrent use by any
// number of workers.
type NullEmitter struct{}

// NewNullEmitter returns a NullEmitter.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards event.
func (n *NullEmitter) Emit(event Event) {}

// EmitBatch discards events and always returns nil.
func (n *NullEmitter) EmitBatch(ctx context.Context, events []Event) error {
	return nil
}

// Flush is a no-op.
func (n *NullEmitter) Flush(ctx context.Context) error {
	return nil
}
