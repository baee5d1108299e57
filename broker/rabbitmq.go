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
	"github.com/streadway/amqp"
)

// RabbitMQOptionFunc func type
type RabbitMQOptionFunc func(*RabbitMQBroker)

// RabbitMQSetBrokerHost set custom broker host
func RabbitMQSetBrokerHost(brokers string) RabbitMQOptionFunc {
	return func(bk *RabbitMQBroker) {
		bk.brokerHost = brokers
	}
}

// RabbitMQSetExchange set exchange name
func RabbitMQSetExchange(exchange string) RabbitMQOptionFunc {
	return func(bk *RabbitMQBroker) {
		bk.exchange = exchange
	}
}

// RabbitMQSetPublisher set custom publisher
func RabbitMQSetPublisher(pub interfaces.Publisher) RabbitMQOptionFunc {
	return func(bk *RabbitMQBroker) {
		bk.publisher = pub
	}
}

// RabbitMQBroker broker
type RabbitMQBroker struct {
	brokerHost string
	exchange   string
	conn       *amqp.Connection
	publisher  interfaces.Publisher
}

// NewRabbitMQBroker setup rabbitmq configuration for notification bus publisher and consumer
func NewRabbitMQBroker(opts ...RabbitMQOptionFunc) *RabbitMQBroker {
	defer logger.LogWithDefer("Load RabbitMQ broker configuration... ")()
	var err error

	rabbitmq := &RabbitMQBroker{
		exchange: "gqlsubscription",
	}
	for _, opt := range opts {
		opt(rabbitmq)
	}

	rabbitmq.conn, err = amqp.Dial(rabbitmq.brokerHost)
	if err != nil {
		panic(fmt.Sprintf("RabbitMQ: cannot connect to server broker %s: %v", candihelper.MaskingPasswordURL(rabbitmq.brokerHost), err))
	}

	ch, err := rabbitmq.conn.Channel()
	if err != nil {
		panic("RabbitMQ channel: " + err.Error())
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(
		rabbitmq.exchange, // name
		"direct",          // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,
	); err != nil {
		panic("RabbitMQ exchange declare: " + err.Error())
	}

	if rabbitmq.publisher == nil {
		rabbitmq.publisher = NewRabbitMQPublisher(rabbitmq.conn, rabbitmq.exchange)
	}

	return rabbitmq
}

// GetPublisher method
func (r *RabbitMQBroker) GetPublisher() interfaces.Publisher {
	return r.publisher
}

// GetConsumer method
func (r *RabbitMQBroker) GetConsumer() interfaces.Consumer {
	return r
}

// GetName method
func (r *RabbitMQBroker) GetName() types.Worker {
	return types.RabbitMQ
}

// Health method
func (r *RabbitMQBroker) Health() map[string]error {
	var err error
	if r.conn.IsClosed() {
		err = errors.New("connection closed")
	}
	return map[string]error{string(types.RabbitMQ): err}
}

// Disconnect method
func (r *RabbitMQBroker) Disconnect(ctx context.Context) error {
	defer logger.LogWithDefer("rabbitmq: disconnect...")()

	return r.conn.Close()
}

// Consume method, declare durable queue named as topic bound to exchange and block until context canceled
func (r *RabbitMQBroker) Consume(ctx context.Context, topic string, handler interfaces.MessageHandler) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Qos(2, 0, false); err != nil {
		return err
	}
	queue, err := ch.QueueDeclare(topic, true, false, false, false, nil)
	if err != nil {
		return err
	}
	if err := ch.QueueBind(queue.Name, topic, r.exchange, false, nil); err != nil {
		return err
	}
	deliveries, err := ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			r.processMessage(ctx, delivery, handler)
			delivery.Ack(false)

		case <-ctx.Done():
			return nil
		}
	}
}

func (r *RabbitMQBroker) processMessage(ctx context.Context, delivery amqp.Delivery, handler interfaces.MessageHandler) {
	header := map[string]string{}
	for key, val := range delivery.Headers {
		header[key] = string(candihelper.ToBytes(val))
	}

	trace, ctx := tracer.StartTraceFromHeader(ctx, "rabbitmq:consume_message", header)
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
		logger.LogIfError(err)
		trace.Finish(tracer.FinishWithError(err))
	}()

	trace.SetTag("exchange", delivery.Exchange)
	trace.SetTag("routing_key", delivery.RoutingKey)
	trace.SetTag("message_id", delivery.MessageId)
	err = handler(ctx, delivery.Body)
}

// rabbitMQPublisher rabbitmq
type rabbitMQPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewRabbitMQPublisher setup only rabbitmq publisher with client connection
func NewRabbitMQPublisher(conn *amqp.Connection, exchange string) interfaces.Publisher {
	return &rabbitMQPublisher{
		conn:     conn,
		exchange: exchange,
	}
}

// PublishMessage method
func (r *rabbitMQPublisher) PublishMessage(ctx context.Context, args *candishared.PublisherArgument) (err error) {
	trace, _ := tracer.StartTraceWithContext(ctx, "rabbitmq:publish_message")
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
		trace.Finish(tracer.FinishWithError(err))
	}()

	if err = args.Validate(); err != nil {
		return err
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	trace.SetTag("topic", args.Topic)
	trace.SetTag("key", args.Key)

	msg := buildPublishing(args)
	traceHeader := map[string]string{}
	trace.InjectRequestHeader(traceHeader)
	for k, v := range traceHeader {
		msg.Headers[k] = v
	}

	trace.Log("header", msg.Headers)
	trace.Log("message", msg.Body)

	return ch.Publish(
		r.exchange,
		args.Topic, // routing key
		false,      // mandatory
		false,      // immediate
		msg)
}

func buildPublishing(args *candishared.PublisherArgument) amqp.Publishing {
	contentType := args.ContentType
	if contentType == "" {
		contentType = candihelper.HeaderMIMEApplicationJSON
	}
	timestamp := args.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	headers := amqp.Table{}
	for k, v := range args.Header {
		headers[k] = v
	}

	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    timestamp,
		ContentType:  contentType,
		MessageId:    args.Key,
		Body:         args.Message,
		Headers:      headers,
	}
}
