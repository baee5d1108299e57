package broker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shopify/sarama"
	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/codebase/factory/types"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/tracer"
)

// KafkaOptionFunc func type
type KafkaOptionFunc func(*KafkaBroker)

// KafkaSetBrokerHost set custom broker host
func KafkaSetBrokerHost(brokers []string) KafkaOptionFunc {
	return func(kb *KafkaBroker) {
		kb.BrokerHost = brokers
	}
}

// KafkaSetClientID set kafka client id, used on default configuration
func KafkaSetClientID(clientID string) KafkaOptionFunc {
	return func(kb *KafkaBroker) {
		kb.clientID = clientID
	}
}

// KafkaSetConsumerGroup set consumer group for notification bus consumer
func KafkaSetConsumerGroup(group string) KafkaOptionFunc {
	return func(kb *KafkaBroker) {
		kb.ConsumerGroup = group
	}
}

// KafkaSetConfig set custom sarama configuration
func KafkaSetConfig(cfg *sarama.Config) KafkaOptionFunc {
	return func(kb *KafkaBroker) {
		kb.Config = cfg
	}
}

// KafkaSetPublisher set custom publisher
func KafkaSetPublisher(pub interfaces.Publisher) KafkaOptionFunc {
	return func(kb *KafkaBroker) {
		kb.publisher = pub
	}
}

// GetDefaultKafkaConfig construct default kafka config
func GetDefaultKafkaConfig(clientID string, additionalConfigFunc ...func(*sarama.Config)) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_0_0_0
	if clientID != "" {
		cfg.ClientID = clientID
	}

	// Producer config
	cfg.Producer.Retry.Max = 15
	cfg.Producer.Retry.Backoff = 50 * time.Millisecond
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true

	// Consumer config, change events older than the consumer are not replayed
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin

	for _, additionalFunc := range additionalConfigFunc {
		additionalFunc(cfg)
	}

	return cfg
}

// KafkaBroker configuration
type KafkaBroker struct {
	BrokerHost    []string
	ConsumerGroup string
	Config        *sarama.Config
	Client        sarama.Client

	clientID  string
	publisher interfaces.Publisher
}

// NewKafkaBroker setup kafka configuration for notification bus publisher and consumer
func NewKafkaBroker(opts ...KafkaOptionFunc) *KafkaBroker {
	defer logger.LogWithDefer("Load Kafka broker configuration... ")()

	kb := &KafkaBroker{
		ConsumerGroup: "gqlsubscription",
	}
	for _, opt := range opts {
		opt(kb)
	}

	if kb.Config == nil {
		kb.Config = GetDefaultKafkaConfig(kb.clientID)
	}

	saramaClient, err := sarama.NewClient(kb.BrokerHost, kb.Config)
	if err != nil {
		panic(fmt.Errorf("%s. Brokers: %s", err, strings.Join(kb.BrokerHost, ", ")))
	}
	kb.Client = saramaClient

	if kb.publisher == nil {
		kb.publisher = NewKafkaPublisher(saramaClient)
	}

	return kb
}

// GetPublisher method
func (k *KafkaBroker) GetPublisher() interfaces.Publisher {
	return k.publisher
}

// GetConsumer method
func (k *KafkaBroker) GetConsumer() interfaces.Consumer {
	return k
}

// GetName method
func (k *KafkaBroker) GetName() types.Worker {
	return types.Kafka
}

// Health method
func (k *KafkaBroker) Health() map[string]error {
	var err error
	if len(k.Client.Brokers()) == 0 {
		err = errors.New("not ok")
	}
	return map[string]error{string(types.Kafka): err}
}

// Disconnect method
func (k *KafkaBroker) Disconnect(ctx context.Context) error {
	defer logger.LogWithDefer("\x1b[33;5mkafka_broker\x1b[0m: disconnect...")()

	return k.Client.Close()
}

// Consume method, join consumer group and block until context canceled
func (k *KafkaBroker) Consume(ctx context.Context, topic string, handler interfaces.MessageHandler) error {
	group, err := sarama.NewConsumerGroupFromClient(k.ConsumerGroup, k.Client)
	if err != nil {
		return err
	}
	defer group.Close()

	groupHandler := &kafkaGroupHandler{handler: handler}
	for {
		if err := group.Consume(ctx, []string{topic}, groupHandler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

type kafkaGroupHandler struct {
	handler interfaces.MessageHandler
}

func (h *kafkaGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *kafkaGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *kafkaGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.processMessage(session.Context(), message)
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *kafkaGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	header := map[string]string{}
	for _, val := range message.Headers {
		header[string(val.Key)] = string(val.Value)
	}

	trace, ctx := tracer.StartTraceFromHeader(ctx, "kafka:consume_message", header)
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
		logger.LogIfError(err)
		trace.Finish(tracer.FinishWithError(err))
	}()

	trace.SetTag("topic", message.Topic)
	trace.SetTag("key", string(message.Key))
	trace.SetTag("partition", message.Partition)
	trace.SetTag("offset", message.Offset)
	err = h.handler(ctx, message.Value)
}

// kafkaPublisher kafka publisher
type kafkaPublisher struct {
	producerSync sarama.SyncProducer
	broker       string
}

// NewKafkaPublisher setup only kafka sync publisher with client connection
func NewKafkaPublisher(client sarama.Client) interfaces.Publisher {
	producer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		logger.LogYellow(fmt.Sprintf("(Kafka publisher: warning, %v. Should be panicked when using kafka publisher.) ", err))
		return nil
	}

	var brokers []string
	for _, cl := range client.Brokers() {
		brokers = append(brokers, cl.Addr())
	}
	return &kafkaPublisher{producerSync: producer, broker: strings.Join(brokers, ",")}
}

// PublishMessage method
func (p *kafkaPublisher) PublishMessage(ctx context.Context, args *candishared.PublisherArgument) (err error) {
	trace, _ := tracer.StartTraceWithContext(ctx, "kafka:publish_message")
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
		trace.Finish(tracer.FinishWithError(err))
	}()

	if err = args.Validate(); err != nil {
		return err
	}

	trace.SetTag("brokers", p.broker)
	trace.SetTag("topic", args.Topic)
	trace.SetTag("key", args.Key)
	trace.Log("header", args.Header)
	trace.Log("message", args.Message)

	msg := &sarama.ProducerMessage{
		Topic:     args.Topic,
		Key:       sarama.StringEncoder(args.Key),
		Value:     sarama.ByteEncoder(args.Message),
		Timestamp: time.Now(),
	}
	if !args.Timestamp.IsZero() {
		msg.Timestamp = args.Timestamp
	}

	traceHeader := map[string]string{}
	trace.InjectRequestHeader(traceHeader)
	for k, v := range traceHeader {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	for keyHeader, valueHeader := range args.Header {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{
			Key:   []byte(keyHeader),
			Value: candihelper.ToBytes(valueHeader),
		})
	}

	_, _, err = p.producerSync.SendMessage(msg)
	return
}
