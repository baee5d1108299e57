package appfactory

import (
	"fmt"

	notificationworker "github.com/golangid/gqlsubscription/codebase/app/notification_worker"
	"github.com/golangid/gqlsubscription/codebase/factory"
	"github.com/golangid/gqlsubscription/codebase/factory/types"
	"github.com/golangid/gqlsubscription/config/env"
)

// BusWorkerType broker type of notification bus driver
func BusWorkerType(driver string) (types.Worker, error) {
	switch driver {
	case env.BusKafka:
		return types.Kafka, nil
	case env.BusRabbitMQ:
		return types.RabbitMQ, nil
	case env.BusRedis:
		return types.RedisSubscriber, nil
	case env.BusNATS:
		return types.NATS, nil
	case env.BusLocal:
		return types.Local, nil
	}
	return "", fmt.Errorf("notification bus driver %q has no broker", driver)
}

// SetupNotificationWorker setup notification bus consumer with default config, panic when broker is not registered
func SetupNotificationWorker(service SubscriptionService) factory.AppServerFactory {
	workerType, err := BusWorkerType(env.BaseEnv().Bus.Driver)
	if err != nil {
		panic(err)
	}
	bk := service.GetDependency().GetBroker(workerType)
	if bk == nil {
		panic(fmt.Errorf("broker %s is not registered in dependency", workerType))
	}

	return notificationworker.NewWorker(bk, env.BaseEnv().Bus.Topic, service.HandleNotification,
		notificationworker.SetMaxGoroutines(env.BaseEnv().Bus.MaxGoroutines),
	)
}
