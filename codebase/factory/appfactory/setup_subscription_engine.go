package appfactory

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/golangid/gqlsubscription/broker"
	"github.com/golangid/gqlsubscription/codebase/factory/dependency"
	"github.com/golangid/gqlsubscription/config/env"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/subscription/hub"
	"github.com/golangid/gqlsubscription/subscription/provider"
	"github.com/golangid/gqlsubscription/subscription/storage"
)

// SetupSubscriberStore subscriber store of selected storage driver
func SetupSubscriberStore(ctx context.Context, deps dependency.Dependency) (subscription.SubscriberStore, error) {
	cfg := env.BaseEnv()
	switch cfg.Storage.Driver {
	case env.StorageFilesystem:
		return storage.NewFilesystemStore(cfg.Storage.Path, os.ModePerm)

	case env.StorageMemory:
		return storage.NewMemoryStore(), nil

	case env.StorageRedis:
		pool := deps.GetRedisPool()
		return storage.NewRedisStore(pool.ReadPool(), pool.WritePool(), cfg.ServiceName), nil

	case env.StorageMongo:
		db := deps.GetMongoDatabase()
		store := storage.NewMongoStore(db.ReadDB(), db.WriteDB(), "")
		return store, store.EnsureIndex(ctx)

	case env.StoragePostgres:
		db := deps.GetSQLDatabase()
		store := storage.NewPostgresStore(db.ReadDB(), db.WriteDB(), "")
		return store, store.Migrate(ctx)
	}
	return nil, fmt.Errorf("unknown subscription storage driver %q", cfg.Storage.Driver)
}

// SetupHubPublisher mercure hub publisher authenticated with publish token,
// update is only logged when hub url is not configured
func SetupHubPublisher() subscription.Publisher {
	cfg := env.BaseEnv().Mercure
	if cfg.HubURL == "" {
		logger.LogYellow("Mercure hub url is not set, update will be logged only")
		return subscription.PublisherFunc(func(ctx context.Context, update subscription.Update) error {
			logger.LogIf("hub disabled, drop update for topic %s: %s", update.Topic, update.Data)
			return nil
		})
	}

	return hub.NewPublisher(cfg.HubURL, provider.NewJWTProvider(cfg.PublishSecret, 0),
		hub.SetRetries(cfg.HTTPRetries, 100*time.Millisecond),
		hub.SetTimeout(cfg.HTTPTimeout),
	)
}

// SetupTokenProvider subscribe token provider
func SetupTokenProvider() subscription.TokenProvider {
	cfg := env.BaseEnv().Mercure
	return provider.NewJWTProvider(cfg.SubscribeSecret, cfg.TokenTTL)
}

// SetupEngineOptions manager option from environment, notification is dispatched to bus when active
func SetupEngineOptions(deps dependency.Dependency) []subscription.OptionFunc {
	cfg := env.BaseEnv()
	opts := []subscription.OptionFunc{
		subscription.SetPublicHubURL(cfg.Mercure.PublicHubURL),
	}

	if cfg.Bus.Driver == env.BusNone {
		return opts
	}
	workerType, err := BusWorkerType(cfg.Bus.Driver)
	if err != nil {
		panic(err)
	}
	bk := deps.GetBroker(workerType)
	if bk == nil {
		panic(fmt.Errorf("broker %s is not registered in dependency", workerType))
	}
	return append(opts, subscription.SetBus(broker.NewBus(bk.GetPublisher(), cfg.Bus.Topic)))
}
