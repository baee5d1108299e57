package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/codebase/factory/types"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/gomodule/redigo/redis"
)

// RedisBroker notification bus over redis PUBLISH/SUBSCRIBE
type RedisBroker struct {
	pool *redis.Pool
}

// NewRedisBroker setup redis pool for publish and subscribe message
func NewRedisBroker(pool *redis.Pool) *RedisBroker {
	return &RedisBroker{pool: pool}
}

// GetPublisher method
func (r *RedisBroker) GetPublisher() interfaces.Publisher {
	return r
}

// GetConsumer method
func (r *RedisBroker) GetConsumer() interfaces.Consumer {
	return r
}

// GetName method
func (r *RedisBroker) GetName() types.Worker {
	return types.RedisSubscriber
}

// Health method
func (r *RedisBroker) Health() map[string]error {
	ping := r.pool.Get()
	_, err := ping.Do("PING")
	ping.Close()
	return map[string]error{string(types.RedisSubscriber): err}
}

// Disconnect method
func (r *RedisBroker) Disconnect(ctx context.Context) error {
	defer logger.LogWithDefer("redis: closing pool...")()

	return r.pool.Close()
}

// PublishMessage method
func (r *RedisBroker) PublishMessage(ctx context.Context, args *candishared.PublisherArgument) (err error) {
	trace, _ := tracer.StartTraceWithContext(ctx, "redis_broker:publish_message")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()

	if err = args.Validate(); err != nil {
		return err
	}

	trace.SetTag("topic", args.Topic)
	trace.SetTag("key", args.Key)
	trace.Log("message", args.Message)

	redisMessage := RedisMessage{
		EventID: args.Key, Header: map[string]string{}, Message: args.Message,
	}
	trace.InjectRequestHeader(redisMessage.Header)
	for k, v := range args.Header {
		redisMessage.Header[k] = fmt.Sprint(v)
	}
	payload, err := json.Marshal(redisMessage)
	if err != nil {
		return err
	}

	conn := r.pool.Get()
	defer conn.Close()
	_, err = conn.Do("PUBLISH", args.Topic, payload)
	return err
}

// Consume method, subscribe to topic channel and block until context canceled
func (r *RedisBroker) Consume(ctx context.Context, topic string, handler interfaces.MessageHandler) error {
	psc := redis.PubSubConn{Conn: r.pool.Get()}
	defer psc.Close()

	if err := psc.Subscribe(topic); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			psc.Unsubscribe()
		case <-done:
		}
	}()

	for {
		switch msg := psc.Receive().(type) {
		case redis.Message:
			r.processMessage(ctx, msg.Data, handler)

		case redis.Subscription:
			if msg.Count == 0 {
				return nil
			}

		case error:
			if ctx.Err() != nil {
				return nil
			}
			return msg
		}
	}
}

func (r *RedisBroker) processMessage(ctx context.Context, data []byte, handler interfaces.MessageHandler) {
	var redisMessage RedisMessage
	if err := json.Unmarshal(data, &redisMessage); err != nil {
		logger.LogE("redis_subscriber: invalid message: " + err.Error())
		return
	}

	trace, ctx := tracer.StartTraceFromHeader(ctx, "redis_subscriber:consume_message", redisMessage.Header)
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
		logger.LogIfError(err)
		trace.Finish(tracer.FinishWithError(err))
	}()

	trace.SetTag("event_id", redisMessage.EventID)
	err = handler(ctx, redisMessage.Message)
}

// RedisMessage messaging model for redis pubsub channel
type RedisMessage struct {
	EventID string            `json:"id,omitempty"`
	Header  map[string]string `json:"header,omitempty"`
	Message []byte            `json:"message"`
}
