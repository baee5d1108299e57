package appfactory

import (
	"context"

	"github.com/golangid/gqlsubscription/codebase/factory"
	"github.com/golangid/gqlsubscription/config/env"
)

// SubscriptionService service served by REST server and notification worker
type SubscriptionService interface {
	factory.ServiceFactory
	// FlushNotifications run after every response
	FlushNotifications(ctx context.Context)
	// HandleNotification consume serialized change event from notification bus
	HandleNotification(ctx context.Context, message []byte) error
}

/*
NewAppFromEnvironmentConfig constructor

Construct server/worker for running application from environment value

## Server

HTTP_PORT=[int] # subscription protocol endpoint, spool flushed after every response

## Worker

NOTIFICATION_BUS=[none|kafka|rabbitmq|redis|nats|local] # consume change event from bus, none for in-process spool only
*/
func NewAppFromEnvironmentConfig(service SubscriptionService) (apps []factory.AppServerFactory) {
	apps = append(apps, SetupRESTServer(service))
	if env.BaseEnv().Bus.Driver != env.BusNone {
		apps = append(apps, SetupNotificationWorker(service))
	}
	return
}
