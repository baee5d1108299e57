package main

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/golangid/gqlsubscription/codebase/app"
	"github.com/golangid/gqlsubscription/codebase/factory/appfactory"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/config/env"
	subscriptionservice "github.com/golangid/gqlsubscription/internal/subscription-service"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/tracer"
)

const (
	serviceName = "subscription-service"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\x1b[31;1mFailed to start %s service: %v\x1b[0m\n", serviceName, r)
			fmt.Printf("Stack trace: \n%s\n", debug.Stack())
		}
	}()

	env.Load(serviceName)
	cfg := env.BaseEnv()
	logger.SetDebugMode(cfg.DebugMode)

	var closers []interfaces.Closer
	if cfg.JaegerTracingHost != "" {
		jaegerCloser, err := tracer.InitJaeger(serviceName,
			tracer.OptionSetAgentHost(cfg.JaegerTracingHost),
			tracer.OptionSetBuildNumberTag(cfg.BuildNumber),
		)
		if err != nil {
			panic(err)
		}
		// last closer, spans of shutdown are still reported
		defer jaegerCloser.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deps := appfactory.SetupDependency(ctx)
	store, err := appfactory.SetupSubscriberStore(ctx, deps)
	if err != nil {
		panic(err)
	}

	srv, err := subscriptionservice.NewService(serviceName, deps, subscriptionservice.Engine{
		TopicURLPattern:  cfg.TopicURLPattern,
		GraphQLSchemaDir: cfg.GraphQLSchemaDir,
		Store:            store,
		Publisher:        appfactory.SetupHubPublisher(),
		TokenProvider:    appfactory.SetupTokenProvider(),
		Options:          appfactory.SetupEngineOptions(deps),
	})
	if err != nil {
		panic(err)
	}

	closers = append(closers,
		// deliver change events queued by the last requests before connections are closed
		interfaces.CloserFunc(func(ctx context.Context) error {
			return srv.Manager().ProcessNotificationsSpool(ctx, true)
		}),
		deps,
	)

	app.New(serviceName,
		app.AddServer(appfactory.NewAppFromEnvironmentConfig(srv)...),
		app.AddCloser(closers...),
		app.SetShutdownTimeout(cfg.ShutdownTimeout),
	).Run()
}
