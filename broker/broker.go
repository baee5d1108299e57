package broker

import (
	"context"
	"fmt"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/codebase/factory/types"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/google/uuid"
)

// Broker model
type Broker struct {
	brokers map[types.Worker]interfaces.Broker
}

/*
InitBrokers register all broker for notification bus publisher or consumer

* for Kafka, pass NewKafkaBroker(...KafkaOptionFunc) in param, configuration from env
KAFKA_BROKERS, KAFKA_CLIENT_ID, KAFKA_CONSUMER_GROUP

* for RabbitMQ, pass NewRabbitMQBroker(...RabbitMQOptionFunc) in param, configuration from env
RABBITMQ_BROKER, RABBITMQ_EXCHANGE_NAME

* for Redis, pass NewRedisBroker(pool) in param

* for NATS, pass NewNATSBroker(url) in param

* for in-process bus, pass NewLocalBroker()
*/
func InitBrokers(brokers ...interfaces.Broker) *Broker {
	brokerInst := &Broker{
		brokers: make(map[types.Worker]interfaces.Broker),
	}
	for _, bk := range brokers {
		if _, ok := brokerInst.brokers[bk.GetName()]; ok {
			panic("Register broker: " + bk.GetName() + " has been registered")
		}
		brokerInst.brokers[bk.GetName()] = bk
	}

	return brokerInst
}

// GetBrokers get all registered broker
func (b *Broker) GetBrokers() map[types.Worker]interfaces.Broker {
	return b.brokers
}

// GetBroker get registered broker by worker type
func (b *Broker) GetBroker(name types.Worker) interfaces.Broker {
	return b.brokers[name]
}

// RegisterBroker register new broker
func (b *Broker) RegisterBroker(brokerName types.Worker, bk interfaces.Broker) {
	if b.brokers == nil {
		b.brokers = make(map[types.Worker]interfaces.Broker)
	}

	if _, ok := b.brokers[brokerName]; ok {
		panic("Register broker: " + brokerName + " has been registered")
	}
	b.brokers[brokerName] = bk
}

// Health check all registered broker
func (b *Broker) Health() map[string]error {
	health := make(map[string]error)
	for _, bk := range b.brokers {
		for k, v := range bk.Health() {
			health[k] = v
		}
	}
	return health
}

// Disconnect disconnect all registered broker
func (b *Broker) Disconnect(ctx context.Context) error {
	mErr := candihelper.NewMultiError()

	for name, broker := range b.brokers {
		mErr.Append(string(name), broker.Disconnect(ctx))
	}

	if mErr.HasError() {
		return mErr
	}
	return nil
}

// Bus hand off serialized change event to broker topic, implement subscription bus
type Bus struct {
	publisher interfaces.Publisher
	topic     string
}

// NewBus construct notification bus from broker publisher
func NewBus(publisher interfaces.Publisher, topic string) *Bus {
	return &Bus{publisher: publisher, topic: topic}
}

// Dispatch method
func (b *Bus) Dispatch(ctx context.Context, message []byte) error {
	if b.publisher == nil {
		return fmt.Errorf("bus %s: publisher not initialized", b.topic)
	}
	return b.publisher.PublishMessage(ctx, &candishared.PublisherArgument{
		Topic:       b.topic,
		Key:         uuid.NewString(),
		ContentType: candihelper.HeaderMIMEApplicationJSON,
		Message:     message,
	})
}

// Topic of bus
func (b *Bus) Topic() string {
	return b.topic
}
