package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (f *fakeSession) Context() context.Context { return f.ctx }
func (f *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	f.marked = append(f.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (f *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return f.messages }

func TestKafkaPublisher_PublishMessage(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"channel":"inbox"}` {
			return errors.New("unexpected message " + string(val))
		}
		return nil
	})

	pub := &kafkaPublisher{producerSync: producer, broker: "localhost:9092"}
	err := pub.PublishMessage(context.Background(), &candishared.PublisherArgument{
		Topic: "notification", Key: "event-1", Message: []byte(`{"channel":"inbox"}`),
		Header: map[string]interface{}{"schema": "public"},
	})
	assert.NoError(t, err)

	assert.Error(t, pub.PublishMessage(context.Background(), &candishared.PublisherArgument{Topic: "notification"}))
	require.NoError(t, producer.Close())
}

func TestKafkaGroupHandler_ConsumeClaim(t *testing.T) {
	var received []string
	handler := &kafkaGroupHandler{handler: func(ctx context.Context, message []byte) error {
		if string(message) == "boom" {
			panic("handler panic")
		}
		received = append(received, string(message))
		return nil
	}}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Topic: "notification", Offset: 1, Value: []byte("first"),
		Headers: []*sarama.RecordHeader{{Key: []byte("uber-trace-id"), Value: []byte("invalid")}}}
	claim.messages <- &sarama.ConsumerMessage{Topic: "notification", Offset: 2, Value: []byte("boom")}
	claim.messages <- &sarama.ConsumerMessage{Topic: "notification", Offset: 3, Value: []byte("last")}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, handler.Setup(session))
	assert.NoError(t, handler.ConsumeClaim(session, claim))
	require.NoError(t, handler.Cleanup(session))

	assert.Equal(t, []string{"first", "last"}, received)
	assert.Equal(t, []int64{1, 2, 3}, session.marked)
}

func TestGetDefaultKafkaConfig(t *testing.T) {
	cfg := GetDefaultKafkaConfig("gqlsubscription-test", func(c *sarama.Config) {
		c.Producer.Retry.Max = 3
	})
	assert.Equal(t, "gqlsubscription-test", cfg.ClientID)
	assert.Equal(t, 3, cfg.Producer.Retry.Max)
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, sarama.OffsetNewest, cfg.Consumer.Offsets.Initial)
	assert.NoError(t, cfg.Validate())
}
