package interfaces

import (
	"context"

	"github.com/golangid/gqlsubscription/candishared"
)

// Publisher abstract interface
type Publisher interface {
	PublishMessage(ctx context.Context, args *candishared.PublisherArgument) (err error)
}

// MessageHandler handle raw message received from broker
type MessageHandler func(ctx context.Context, message []byte) error

// Consumer abstract interface, Consume block until context canceled or connection closed
type Consumer interface {
	Consume(ctx context.Context, topic string, handler MessageHandler) error
}
