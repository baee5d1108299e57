package env

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageFilesystem = "filesystem"
	StorageMemory     = "memory"
	StorageRedis      = "redis"
	StorageMongo      = "mongo"
	StoragePostgres   = "postgres"
)

// Notification bus drivers
const (
	BusNone     = "none"
	BusKafka    = "kafka"
	BusRabbitMQ = "rabbitmq"
	BusRedis    = "redis"
	BusNATS     = "nats"
	BusLocal    = "local"
)

// Env model
type Env struct {
	ServiceName string `validate:"required"`
	BuildNumber string
	// Env on application
	Environment string
	DebugMode   bool

	// HTTPPort config
	HTTPPort        uint16 `validate:"required"`
	HTTPRootPath    string
	ShutdownTimeout time.Duration

	// TopicURLPattern contains {id}, optionally {channel} and {schemaName}
	TopicURLPattern string `validate:"required,contains={id}"`
	// GraphQLSchemaDir directory of *.graphql schema files, empty for embedded schema
	GraphQLSchemaDir string

	Mercure struct {
		HubURL          string `validate:"omitempty,url"`
		PublicHubURL    string `validate:"omitempty,url"`
		PublishSecret   string `validate:"required_with=HubURL"`
		SubscribeSecret string `validate:"required"`
		TokenTTL        time.Duration
		HTTPRetries     int `validate:"gte=0"`
		HTTPTimeout     time.Duration
	}

	Storage struct {
		Driver string `validate:"oneof=filesystem memory redis mongo postgres"`
		Path   string `validate:"required_if=Driver filesystem"`
	}

	Bus struct {
		Driver        string `validate:"oneof=none kafka rabbitmq redis nats local"`
		Topic         string `validate:"required_unless=Driver none"`
		MaxGoroutines int    `validate:"gt=0"`
	}

	// Broker environment
	Kafka struct {
		Brokers       []string
		ClientID      string
		ConsumerGroup string
	}
	RabbitMQ struct {
		Broker       string
		ExchangeName string
	}
	NATS struct {
		URL string
	}

	// JaegerTracingHost env
	JaegerTracingHost string

	// Database environment
	DbMongoWriteHost, DbMongoReadHost string
	DbMongoDatabaseName               string
	DbSQLWriteDSN, DbSQLReadDSN       string
	DbRedisReadDSN, DbRedisWriteDSN   string

	StartAt string
}

var env Env

// BaseEnv get global basic environment
func BaseEnv() Env {
	return env
}

// SetEnv set env for mocking data env
func SetEnv(newEnv Env) {
	env = newEnv
}

// Load environment from .env file (in WORKDIR) and process environment, panic when invalid
func Load(serviceName string) {
	err := godotenv.Load(os.Getenv(candihelper.WORKDIR) + ".env")
	if err != nil {
		log.Printf("Warning: load env, %v", err)
	}

	parsed, err := Parse(serviceName)
	if err != nil {
		panic("Basic environment error: \n" + err.Error())
	}
	env = parsed
}

// Parse environment from process environment variable
func Parse(serviceName string) (Env, error) {
	var e Env
	e.ServiceName = serviceName
	e.BuildNumber = os.Getenv("BUILD_NUMBER")
	e.Environment = os.Getenv("ENVIRONMENT")

	mErrs := candihelper.NewMultiError()

	var err error
	e.DebugMode, err = strconv.ParseBool(os.Getenv("DEBUG_MODE"))
	if err != nil {
		e.DebugMode = true
	}

	httpPort, err := strconv.Atoi(getEnvDefault("HTTP_PORT", "8000"))
	if err != nil || httpPort <= 0 || httpPort > 65535 {
		mErrs.Append("HTTP_PORT", errors.New("HTTP_PORT environment must be a valid port number"))
	}
	e.HTTPPort = uint16(httpPort)
	e.HTTPRootPath = os.Getenv("HTTP_ROOT_PATH")
	e.ShutdownTimeout = parseDuration("SHUTDOWN_TIMEOUT", time.Minute)

	e.TopicURLPattern = os.Getenv("TOPIC_URL_PATTERN")
	e.GraphQLSchemaDir = os.Getenv("GRAPHQL_SCHEMA_DIR")

	e.Mercure.HubURL = os.Getenv("MERCURE_HUB_URL")
	e.Mercure.PublicHubURL = os.Getenv("MERCURE_HUB_PUBLIC_URL")
	e.Mercure.PublishSecret = os.Getenv("MERCURE_PUBLISH_SECRET")
	e.Mercure.SubscribeSecret = os.Getenv("MERCURE_SUBSCRIBE_SECRET")
	e.Mercure.TokenTTL = parseDuration("MERCURE_TOKEN_TTL", 0)
	e.Mercure.HTTPTimeout = parseDuration("HUB_HTTP_TIMEOUT", 10*time.Second)
	e.Mercure.HTTPRetries, err = strconv.Atoi(getEnvDefault("HUB_HTTP_RETRIES", "3"))
	if err != nil {
		mErrs.Append("HUB_HTTP_RETRIES", errors.New("HUB_HTTP_RETRIES environment must in integer format"))
	}

	e.Storage.Driver = getEnvDefault("SUBSCRIPTION_STORAGE", StorageFilesystem)
	e.Storage.Path = os.Getenv("SUBSCRIPTION_STORAGE_PATH")

	e.Bus.Driver = getEnvDefault("NOTIFICATION_BUS", BusNone)
	e.Bus.Topic = os.Getenv("NOTIFICATION_BUS_TOPIC")
	e.Bus.MaxGoroutines, err = strconv.Atoi(getEnvDefault("MAX_GOROUTINES", "10"))
	if err != nil {
		mErrs.Append("MAX_GOROUTINES", errors.New("MAX_GOROUTINES environment must in integer format"))
	}

	e.JaegerTracingHost = os.Getenv("JAEGER_TRACING_HOST")

	parseBrokerEnv(&e)
	parseDatabaseEnv(&e)
	checkDependencyEnv(&e, mErrs)

	if err := validator.New().Struct(e); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				mErrs.Append(fieldErr.Namespace(), fieldErr)
			}
		} else {
			mErrs.Append("validator", err)
		}
	}

	e.StartAt = time.Now().Format(time.RFC3339)

	if mErrs.HasError() {
		return e, mErrs
	}
	return e, nil
}

func parseBrokerEnv(e *Env) {
	if kafkaBrokerEnv := os.Getenv("KAFKA_BROKERS"); kafkaBrokerEnv != "" {
		e.Kafka.Brokers = candihelper.SplitTrimSpace(kafkaBrokerEnv, ",")
	}
	e.Kafka.ClientID = os.Getenv("KAFKA_CLIENT_ID")
	e.Kafka.ConsumerGroup = getEnvDefault("KAFKA_CONSUMER_GROUP", e.ServiceName)
	e.RabbitMQ.Broker = os.Getenv("RABBITMQ_BROKER")
	e.RabbitMQ.ExchangeName = getEnvDefault("RABBITMQ_EXCHANGE_NAME", e.ServiceName)
	e.NATS.URL = os.Getenv("NATS_URL")
}

func parseDatabaseEnv(e *Env) {
	e.DbMongoWriteHost = os.Getenv("MONGODB_HOST_WRITE")
	e.DbMongoReadHost = os.Getenv("MONGODB_HOST_READ")
	e.DbMongoDatabaseName = os.Getenv("MONGODB_DATABASE_NAME")

	e.DbSQLReadDSN = os.Getenv("SQL_DB_READ_DSN")
	e.DbSQLWriteDSN = os.Getenv("SQL_DB_WRITE_DSN")

	e.DbRedisReadDSN = os.Getenv("REDIS_READ_DSN")
	e.DbRedisWriteDSN = os.Getenv("REDIS_WRITE_DSN")
}

// checkDependencyEnv connection settings required by selected storage and bus driver
func checkDependencyEnv(e *Env, mErrs candihelper.MultiError) {
	switch e.Storage.Driver {
	case StorageRedis:
		requireEnv(mErrs, "REDIS_WRITE_DSN", e.DbRedisWriteDSN, "redis storage is active")
	case StorageMongo:
		requireEnv(mErrs, "MONGODB_HOST_WRITE", e.DbMongoWriteHost, "mongo storage is active")
	case StoragePostgres:
		requireEnv(mErrs, "SQL_DB_WRITE_DSN", e.DbSQLWriteDSN, "postgres storage is active")
	}

	switch e.Bus.Driver {
	case BusKafka:
		if len(e.Kafka.Brokers) == 0 {
			mErrs.Append("KAFKA_BROKERS", errors.New("kafka bus is active, missing KAFKA_BROKERS environment"))
		}
	case BusRabbitMQ:
		requireEnv(mErrs, "RABBITMQ_BROKER", e.RabbitMQ.Broker, "rabbitmq bus is active")
	case BusRedis:
		requireEnv(mErrs, "REDIS_WRITE_DSN", e.DbRedisWriteDSN, "redis bus is active")
	case BusNATS:
		requireEnv(mErrs, "NATS_URL", e.NATS.URL, "nats bus is active")
	}
}

func requireEnv(mErrs candihelper.MultiError, key, value, reason string) {
	if value == "" {
		mErrs.Append(key, errors.New(reason+", missing "+key+" environment"))
	}
}

func getEnvDefault(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return defaultValue
}

func parseDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
