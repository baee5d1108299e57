package appfactory

import (
	"context"

	"github.com/golangid/gqlsubscription/broker"
	"github.com/golangid/gqlsubscription/codebase/factory/dependency"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/config/database"
	"github.com/golangid/gqlsubscription/config/env"
	"github.com/golangid/gqlsubscription/validator"
)

// SetupDependency open connection needed by selected storage and notification bus driver
func SetupDependency(ctx context.Context) dependency.Dependency {
	cfg := env.BaseEnv()
	opts := []dependency.Option{
		dependency.SetValidator(validator.NewValidator()),
	}

	var redisPool interfaces.RedisPool
	if cfg.Storage.Driver == env.StorageRedis || cfg.Bus.Driver == env.BusRedis {
		redisPool = database.InitRedis(cfg.DbRedisReadDSN, cfg.DbRedisWriteDSN)
		opts = append(opts, dependency.SetRedisPool(redisPool))
	}
	switch cfg.Storage.Driver {
	case env.StorageMongo:
		opts = append(opts, dependency.SetMongoDatabase(
			database.InitMongoDB(ctx, cfg.DbMongoReadHost, cfg.DbMongoWriteHost, cfg.DbMongoDatabaseName),
		))
	case env.StoragePostgres:
		opts = append(opts, dependency.SetSQLDatabase(
			database.InitSQLDatabase(cfg.DbSQLReadDSN, cfg.DbSQLWriteDSN),
		))
	}

	if bk := setupBroker(cfg, redisPool); bk != nil {
		opts = append(opts, dependency.SetBrokers(broker.InitBrokers(bk).GetBrokers()))
	}

	return dependency.InitDependency(opts...)
}

func setupBroker(cfg env.Env, redisPool interfaces.RedisPool) interfaces.Broker {
	switch cfg.Bus.Driver {
	case env.BusKafka:
		return broker.NewKafkaBroker(
			broker.KafkaSetBrokerHost(cfg.Kafka.Brokers),
			broker.KafkaSetClientID(cfg.Kafka.ClientID),
			broker.KafkaSetConsumerGroup(cfg.Kafka.ConsumerGroup),
		)
	case env.BusRabbitMQ:
		return broker.NewRabbitMQBroker(
			broker.RabbitMQSetBrokerHost(cfg.RabbitMQ.Broker),
			broker.RabbitMQSetExchange(cfg.RabbitMQ.ExchangeName),
		)
	case env.BusRedis:
		return broker.NewRedisBroker(redisPool.WritePool())
	case env.BusNATS:
		return broker.NewNATSBroker(cfg.NATS.URL, broker.NATSSetQueueGroup(cfg.ServiceName))
	case env.BusLocal:
		return broker.NewLocalBroker(0)
	}
	return nil
}
