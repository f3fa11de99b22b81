package publishers

import (
	"context"
	"io"
)

// queuePublisher gives a sender a publisher identity.
type queuePublisher struct {
	id     string
	typ    string
	sender sender
}

func newQueuePublisher(id, typ string, s sender) *queuePublisher {
	return &queuePublisher{id: id, typ: typ, sender: s}
}

func (q *queuePublisher) ID() string   { return q.id }
func (q *queuePublisher) Type() string { return q.typ }

func (q *queuePublisher) Publish(ctx context.Context, evt Event) error {
	return q.sender.Send(ctx, evt)
}

// Close releases the sender when it owns a connection.
func (q *queuePublisher) Close() error {
	if c, ok := q.sender.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
