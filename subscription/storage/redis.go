package storage

import (
	"context"
	"errors"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/gomodule/redigo/redis"
)

const defaultRedisPrefix = "gqlsubscription"

// RedisStore subscriber record in string key, channel index in set
type RedisStore struct {
	read, write *redis.Pool
	prefix      string
}

// NewRedisStore constructor
func NewRedisStore(read, write *redis.Pool, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{read: read, write: write, prefix: prefix}
}

func (r *RedisStore) subscriberKey(id string) string {
	return r.prefix + ":subscriber:" + id
}

func (r *RedisStore) channelKey(channel, schemaName string) string {
	return r.prefix + ":channel:" + channelKey(channel, schemaName)
}

// Store method
func (r *RedisStore) Store(ctx context.Context, subscriber *subscription.Subscriber) (err error) {
	trace, _ := tracer.StartTraceWithContext(ctx, "redis:store")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("db.key", r.subscriberKey(subscriber.ID))

	data, err := Encode(subscriber)
	if err != nil {
		return candishared.NewStorageError("store", err)
	}

	cl := r.write.Get()
	defer cl.Close()

	cl.Send("MULTI")
	cl.Send("SET", r.subscriberKey(subscriber.ID), data)
	cl.Send("SADD", r.channelKey(subscriber.Channel, subscriber.SchemaName), subscriber.ID)
	if _, err := cl.Do("EXEC"); err != nil {
		return candishared.NewStorageError("store", err)
	}
	return nil
}

// FindByChannelAndSchema method, missing or corrupt record is skipped
func (r *RedisStore) FindByChannelAndSchema(ctx context.Context, channel, schemaName string, handleFunc func(*subscription.Subscriber) error) (err error) {
	trace, _ := tracer.StartTraceWithContext(ctx, "redis:find_by_channel_and_schema")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("db.key", r.channelKey(channel, schemaName))

	cl := r.read.Get()
	defer cl.Close()

	ids, err := redis.Strings(cl.Do("SMEMBERS", r.channelKey(channel, schemaName)))
	if err != nil {
		return candishared.NewStorageError("find", err)
	}
	if len(ids) == 0 {
		return nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = r.subscriberKey(id)
	}
	records, err := redis.ByteSlices(cl.Do("MGET", args...))
	if err != nil {
		return candishared.NewStorageError("find", err)
	}

	for i, record := range records {
		if record == nil {
			continue
		}
		subscriber, ok := decodeRecord(ids[i], record)
		if !ok {
			continue
		}
		if err := handleFunc(subscriber); err != nil {
			return err
		}
	}
	return nil
}

// Delete method
func (r *RedisStore) Delete(ctx context.Context, id string) (err error) {
	trace, _ := tracer.StartTraceWithContext(ctx, "redis:delete")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("db.key", r.subscriberKey(id))

	cl := r.write.Get()
	defer cl.Close()

	data, err := redis.Bytes(cl.Do("GET", r.subscriberKey(id)))
	if errors.Is(err, redis.ErrNil) {
		return candishared.NewNotFoundError("subscriber", id)
	}
	if err != nil {
		return candishared.NewStorageError("delete", err)
	}

	cl.Send("MULTI")
	cl.Send("DEL", r.subscriberKey(id))
	if subscriber, err := Decode(data); err == nil {
		cl.Send("SREM", r.channelKey(subscriber.Channel, subscriber.SchemaName), id)
	}
	if _, err := cl.Do("EXEC"); err != nil {
		return candishared.NewStorageError("delete", err)
	}
	return nil
}
