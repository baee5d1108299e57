package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/codebase/factory/types"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/tracer"
)

// ErrLocalBrokerClosed returned when publish or consume on disconnected local broker
var ErrLocalBrokerClosed = errors.New("local broker: closed")

// LocalBroker in-process notification bus, one buffered queue per topic shared by all consumer
type LocalBroker struct {
	mu         sync.Mutex
	bufferSize int
	topics     map[string]chan []byte
	closed     chan struct{}
	closeOnce  sync.Once
}

// NewLocalBroker construct in-process broker
func NewLocalBroker(bufferSize int) *LocalBroker {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &LocalBroker{
		bufferSize: bufferSize,
		topics:     make(map[string]chan []byte),
		closed:     make(chan struct{}),
	}
}

func (l *LocalBroker) queue(topic string) chan []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	q, ok := l.topics[topic]
	if !ok {
		q = make(chan []byte, l.bufferSize)
		l.topics[topic] = q
	}
	return q
}

// GetPublisher method
func (l *LocalBroker) GetPublisher() interfaces.Publisher {
	return l
}

// GetConsumer method
func (l *LocalBroker) GetConsumer() interfaces.Consumer {
	return l
}

// GetName method
func (l *LocalBroker) GetName() types.Worker {
	return types.Local
}

// Health method
func (l *LocalBroker) Health() map[string]error {
	var err error
	select {
	case <-l.closed:
		err = ErrLocalBrokerClosed
	default:
	}
	return map[string]error{string(types.Local): err}
}

// Disconnect method
func (l *LocalBroker) Disconnect(ctx context.Context) error {
	l.closeOnce.Do(func() { close(l.closed) })
	return nil
}

// PublishMessage method, block when topic buffer is full until context canceled
func (l *LocalBroker) PublishMessage(ctx context.Context, args *candishared.PublisherArgument) (err error) {
	trace, _ := tracer.StartTraceWithContext(ctx, "local:publish_message")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()

	if err = args.Validate(); err != nil {
		return err
	}
	trace.SetTag("topic", args.Topic)
	trace.SetTag("key", args.Key)

	message := make([]byte, len(args.Message))
	copy(message, args.Message)

	select {
	case l.queue(args.Topic) <- message:
		return nil
	case <-l.closed:
		return ErrLocalBrokerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume method, block until context canceled or broker disconnected
func (l *LocalBroker) Consume(ctx context.Context, topic string, handler interfaces.MessageHandler) error {
	q := l.queue(topic)
	for {
		select {
		case message := <-q:
			l.processMessage(ctx, topic, message, handler)
		case <-l.closed:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (l *LocalBroker) processMessage(ctx context.Context, topic string, message []byte, handler interfaces.MessageHandler) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "local:consume_message")
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
		logger.LogIfError(err)
		trace.Finish(tracer.FinishWithError(err))
	}()

	trace.SetTag("topic", topic)
	err = handler(ctx, message)
}
