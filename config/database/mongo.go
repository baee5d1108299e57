package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/logger"
)

type mongoInstance struct {
	read, write *mongo.Database
}

func (m *mongoInstance) ReadDB() *mongo.Database {
	return m.read
}

func (m *mongoInstance) WriteDB() *mongo.Database {
	return m.write
}

func (m *mongoInstance) Health() map[string]error {
	ctx := context.Background()
	return map[string]error{
		"mongo_read":  m.read.Client().Ping(ctx, readpref.Primary()),
		"mongo_write": m.write.Client().Ping(ctx, readpref.Primary()),
	}
}

func (m *mongoInstance) Disconnect(ctx context.Context) (err error) {
	defer logger.LogWithDefer("\x1b[33;5mmongodb\x1b[0m: disconnect...")()

	if err := m.write.Client().Disconnect(ctx); err != nil {
		return err
	}
	if m.read.Client() != m.write.Client() {
		err = m.read.Client().Disconnect(ctx)
	}
	return
}

// InitMongoDB return mongo db read & write instance,
// if want to create single connection, set empty readDSN.
// Database name from dsn path, overridden by databaseName when not empty
func InitMongoDB(ctx context.Context, readDSN, writeDSN, databaseName string, opts ...*options.ClientOptions) interfaces.MongoDatabase {
	defer logger.LogWithDefer("Load MongoDB connection...")()

	write := ConnectMongoDB(ctx, writeDSN, databaseName, opts...)
	if readDSN == "" || readDSN == writeDSN {
		return &mongoInstance{read: write, write: write}
	}

	return &mongoInstance{
		read:  ConnectMongoDB(ctx, readDSN, databaseName, opts...),
		write: write,
	}
}

// ConnectMongoDB connect to mongodb with dsn
func ConnectMongoDB(ctx context.Context, dsn, databaseName string, opts ...*options.ClientOptions) *mongo.Database {
	connDSN, err := connstring.ParseAndValidate(dsn)
	if err != nil {
		log.Panic(err)
	}
	if databaseName == "" {
		databaseName = connDSN.Database
	}

	clientOpts := []*options.ClientOptions{
		options.Client().ApplyURI(connDSN.String()),
		options.Client().SetConnectTimeout(10 * time.Second),
		options.Client().SetServerSelectionTimeout(10 * time.Second),
	}
	clientOpts = append(clientOpts, opts...)

	client, err := mongo.Connect(ctx, clientOpts...)
	if err != nil {
		log.Panicf("mongodb: %v, conn: %s", err, connDSN.String())
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		log.Panicf("mongodb ping: %v", err)
	}

	return client.Database(databaseName)
}
