package types

// Server is the type returned by a classifier server
type Server string

// Worker is the type returned by a classifier worker (notification bus consumer)
type Worker string

const (
	// REST server
	REST Server = "rest"

	// Kafka worker
	Kafka Worker = "kafka"
	// RabbitMQ worker
	RabbitMQ Worker = "rabbit_mq"
	// RedisSubscriber worker
	RedisSubscriber Worker = "redis_subscriber"
	// NATS worker
	NATS Worker = "nats"
	// Local worker, in-process channel
	Local Worker = "local"
)
