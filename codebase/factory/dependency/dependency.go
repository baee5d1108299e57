package dependency

import (
	"context"
	"log"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/codebase/factory/types"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
)

// Dependency base
type Dependency interface {
	GetBroker(types.Worker) interfaces.Broker
	FetchBroker(func(types.Worker, interfaces.Broker))

	GetSQLDatabase() interfaces.SQLDatabase
	GetMongoDatabase() interfaces.MongoDatabase
	GetRedisPool() interfaces.RedisPool

	GetValidator() interfaces.Validator

	// Health of every registered connection
	Health() map[string]error

	interfaces.Closer
}

// Option func type
type Option func(*deps)

// SetBrokers option func
func SetBrokers(brokers map[types.Worker]interfaces.Broker) Option {
	return func(d *deps) {
		d.brokers = brokers
	}
}

// SetSQLDatabase option func
func SetSQLDatabase(db interfaces.SQLDatabase) Option {
	return func(d *deps) {
		d.sqlDB = db
	}
}

// SetMongoDatabase option func
func SetMongoDatabase(db interfaces.MongoDatabase) Option {
	return func(d *deps) {
		d.mongoDB = db
	}
}

// SetRedisPool option func
func SetRedisPool(db interfaces.RedisPool) Option {
	return func(d *deps) {
		d.redisPool = db
	}
}

// SetValidator option func
func SetValidator(validator interfaces.Validator) Option {
	return func(d *deps) {
		d.validator = validator
	}
}

type deps struct {
	brokers map[types.Worker]interfaces.Broker

	sqlDB     interfaces.SQLDatabase
	mongoDB   interfaces.MongoDatabase
	redisPool interfaces.RedisPool

	validator interfaces.Validator
}

// InitDependency constructor
func InitDependency(opts ...Option) Dependency {
	d := new(deps)
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *deps) GetBroker(brokerType types.Worker) interfaces.Broker {
	bk := d.brokers[brokerType]
	if bk == nil {
		log.Printf("\x1b[31;1m[dependency.GetBroker] Broker \"%s\" is not registered in dependency config\x1b[0m\n", string(brokerType))
	}
	return bk
}

func (d *deps) FetchBroker(fn func(types.Worker, interfaces.Broker)) {
	for t, bk := range d.brokers {
		fn(t, bk)
	}
}

func (d *deps) GetSQLDatabase() interfaces.SQLDatabase {
	return d.sqlDB
}

func (d *deps) GetMongoDatabase() interfaces.MongoDatabase {
	return d.mongoDB
}

func (d *deps) GetRedisPool() interfaces.RedisPool {
	return d.redisPool
}

func (d *deps) GetValidator() interfaces.Validator {
	return d.validator
}

func (d *deps) Health() map[string]error {
	health := make(map[string]error)
	merge := func(h map[string]error) {
		for k, v := range h {
			health[k] = v
		}
	}
	for _, bk := range d.brokers {
		merge(bk.Health())
	}
	if d.sqlDB != nil {
		merge(d.sqlDB.Health())
	}
	if d.mongoDB != nil {
		merge(d.mongoDB.Health())
	}
	if d.redisPool != nil {
		merge(d.redisPool.Health())
	}
	return health
}

func (d *deps) Disconnect(ctx context.Context) error {
	mErr := candihelper.NewMultiError()
	for name, bk := range d.brokers {
		mErr.Append("broker_"+string(name), safeClose(ctx, bk))
	}
	mErr.Append("sql", safeClose(ctx, d.sqlDB))
	mErr.Append("mongo", safeClose(ctx, d.mongoDB))
	mErr.Append("redis", safeClose(ctx, d.redisPool))

	if mErr.HasError() {
		return mErr
	}
	return nil
}

func safeClose(ctx context.Context, d interfaces.Closer) error {
	if d != nil {
		return d.Disconnect(ctx)
	}
	return nil
}
