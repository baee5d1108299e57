package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/codebase/factory/types"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/nats-io/nats.go"
)

// NATSOptionFunc func type
type NATSOptionFunc func(*NATSBroker)

// NATSSetQueueGroup set queue group, subscribers in the same group receive each message once
func NATSSetQueueGroup(group string) NATSOptionFunc {
	return func(n *NATSBroker) {
		n.queueGroup = group
	}
}

// NATSSetConnection set existing nats connection
func NATSSetConnection(conn *nats.Conn) NATSOptionFunc {
	return func(n *NATSBroker) {
		n.conn = conn
	}
}

// NATSBroker notification bus over core nats subject
type NATSBroker struct {
	url        string
	queueGroup string
	conn       *nats.Conn
}

// NewNATSBroker setup nats connection for publish and subscribe message
func NewNATSBroker(url string, opts ...NATSOptionFunc) *NATSBroker {
	defer logger.LogWithDefer("Load NATS broker configuration... ")()

	n := &NATSBroker{
		url:        url,
		queueGroup: "gqlsubscription",
	}
	for _, opt := range opts {
		opt(n)
	}

	if n.conn == nil {
		conn, err := nats.Connect(n.url,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(time.Second),
		)
		if err != nil {
			panic(fmt.Errorf("NATS: cannot connect to %s: %w", candihelper.MaskingPasswordURL(n.url), err))
		}
		n.conn = conn
	}

	return n
}

// GetPublisher method
func (n *NATSBroker) GetPublisher() interfaces.Publisher {
	return n
}

// GetConsumer method
func (n *NATSBroker) GetConsumer() interfaces.Consumer {
	return n
}

// GetName method
func (n *NATSBroker) GetName() types.Worker {
	return types.NATS
}

// Health method
func (n *NATSBroker) Health() map[string]error {
	var err error
	if !n.conn.IsConnected() {
		err = errors.New("not connected, status: " + n.conn.Status().String())
	}
	return map[string]error{string(types.NATS): err}
}

// Disconnect method
func (n *NATSBroker) Disconnect(ctx context.Context) error {
	defer logger.LogWithDefer("nats: drain connection...")()

	return n.conn.Drain()
}

// PublishMessage method
func (n *NATSBroker) PublishMessage(ctx context.Context, args *candishared.PublisherArgument) (err error) {
	trace, _ := tracer.StartTraceWithContext(ctx, "nats:publish_message")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()

	if err = args.Validate(); err != nil {
		return err
	}

	trace.SetTag("subject", args.Topic)
	trace.SetTag("key", args.Key)
	trace.Log("message", args.Message)

	traceHeader := map[string]string{}
	trace.InjectRequestHeader(traceHeader)
	msg := newNATSMessage(args, traceHeader)

	return n.conn.PublishMsg(msg)
}

// Consume method, queue subscribe to subject and block until context canceled
func (n *NATSBroker) Consume(ctx context.Context, topic string, handler interfaces.MessageHandler) error {
	sub, err := n.conn.QueueSubscribe(topic, n.queueGroup, func(msg *nats.Msg) {
		n.processMessage(ctx, msg, handler)
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return sub.Unsubscribe()
}

func (n *NATSBroker) processMessage(ctx context.Context, msg *nats.Msg, handler interfaces.MessageHandler) {
	header := natsHeader(msg)
	trace, ctx := tracer.StartTraceFromHeader(ctx, "nats:consume_message", header)
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
		logger.LogIfError(err)
		trace.Finish(tracer.FinishWithError(err))
	}()

	trace.SetTag("subject", msg.Subject)
	trace.SetTag("key", header["key"])
	err = handler(ctx, msg.Data)
}

func newNATSMessage(args *candishared.PublisherArgument, traceHeader map[string]string) *nats.Msg {
	msg := &nats.Msg{
		Subject: args.Topic,
		Data:    args.Message,
		Header:  nats.Header{},
	}
	msg.Header.Set("key", args.Key)
	for k, v := range args.Header {
		msg.Header.Set(k, fmt.Sprint(v))
	}
	for k, v := range traceHeader {
		msg.Header.Set(k, v)
	}
	return msg
}

func natsHeader(msg *nats.Msg) map[string]string {
	header := make(map[string]string, len(msg.Header))
	for key := range msg.Header {
		header[key] = msg.Header.Get(key)
	}
	return header
}
