package storage

import (
	"context"
	"fmt"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/tracer"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoCollection = "subscribers"

// MongoStore subscriber record as compressed blob document, _id is subscriber id
type MongoStore struct {
	read, write *mongo.Collection
}

type mongoRecord struct {
	ID         string `bson:"_id"`
	Channel    string `bson:"channel"`
	SchemaName string `bson:"schemaName"`
	Data       []byte `bson:"data"`
}

// NewMongoStore constructor
func NewMongoStore(readDB, writeDB *mongo.Database, collection string) *MongoStore {
	if collection == "" {
		collection = defaultMongoCollection
	}
	return &MongoStore{read: readDB.Collection(collection), write: writeDB.Collection(collection)}
}

// EnsureIndex create channel and schema name index
func (m *MongoStore) EnsureIndex(ctx context.Context) error {
	_, err := m.write.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "channel", Value: 1}, {Key: "schemaName", Value: 1}},
	})
	if err != nil {
		return candishared.NewStorageError("ensure_index", err)
	}
	return nil
}

// Store method
func (m *MongoStore) Store(ctx context.Context, subscriber *subscription.Subscriber) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "mongo:store")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("subscriber_id", subscriber.ID)

	data, err := Encode(subscriber)
	if err != nil {
		return candishared.NewStorageError("store", err)
	}

	record := mongoRecord{ID: subscriber.ID, Channel: subscriber.Channel, SchemaName: subscriber.SchemaName, Data: data}
	_, err = m.write.ReplaceOne(ctx, bson.M{"_id": subscriber.ID}, record, options.Replace().SetUpsert(true))
	if err != nil {
		return candishared.NewStorageError("store", err)
	}
	return nil
}

// FindByChannelAndSchema method, document that cannot be decoded or is incomplete is skipped
func (m *MongoStore) FindByChannelAndSchema(ctx context.Context, channel, schemaName string, handleFunc func(*subscription.Subscriber) error) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "mongo:find_by_channel_and_schema")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("channel", channel)

	cursor, err := m.read.Find(ctx, bson.M{"channel": channel, "schemaName": schemaName})
	if err != nil {
		return candishared.NewStorageError("find", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var record mongoRecord
		if err := cursor.Decode(&record); err != nil {
			logger.LogYellow(fmt.Sprintf("storage: skip corrupt subscriber document: %v", err))
			continue
		}
		subscriber, ok := decodeRecord(record.ID, record.Data)
		if !ok {
			continue
		}
		if err := handleFunc(subscriber); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return candishared.NewStorageError("find", err)
	}
	return nil
}

// Delete method
func (m *MongoStore) Delete(ctx context.Context, id string) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "mongo:delete")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("subscriber_id", id)

	res, err := m.write.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return candishared.NewStorageError("delete", err)
	}
	if res.DeletedCount == 0 {
		return candishared.NewNotFoundError("subscriber", id)
	}
	return nil
}
