package appfactory

import (
	restserver "github.com/golangid/gqlsubscription/codebase/app/rest_server"
	"github.com/golangid/gqlsubscription/codebase/factory"
	"github.com/golangid/gqlsubscription/config/env"
)

// SetupRESTServer setup rest server with default config
func SetupRESTServer(service SubscriptionService) factory.AppServerFactory {
	return restserver.NewServer(
		service,
		restserver.SetHTTPPort(env.BaseEnv().HTTPPort),
		restserver.SetRootPath(env.BaseEnv().HTTPRootPath),
		restserver.SetDebugMode(env.BaseEnv().DebugMode),
		restserver.AddAfterResponseHook(service.FlushNotifications),
	)
}
