package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golangid/gqlsubscription/codebase/factory"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
)

// App service
type App struct {
	name            string
	servers         []factory.AppServerFactory
	closers         []interfaces.Closer
	shutdownTimeout time.Duration
}

// OptionFunc type
type OptionFunc func(*App)

// AddServer option func, register server or worker
func AddServer(servers ...factory.AppServerFactory) OptionFunc {
	return func(a *App) {
		a.servers = append(a.servers, servers...)
	}
}

// AddCloser option func, closed after all server and worker stopped
func AddCloser(closers ...interfaces.Closer) OptionFunc {
	return func(a *App) {
		a.closers = append(a.closers, closers...)
	}
}

// SetShutdownTimeout option func
func SetShutdownTimeout(timeout time.Duration) OptionFunc {
	return func(a *App) {
		a.shutdownTimeout = timeout
	}
}

// New service app
func New(name string, opts ...OptionFunc) *App {
	log.Printf("Starting \x1b[32;1m%s\x1b[0m service\n\n", name)

	appInstance := &App{name: name, shutdownTimeout: 1 * time.Minute}
	for _, opt := range opts {
		opt(appInstance)
	}
	return appInstance
}

// Run start app
func (a *App) Run() {
	if len(a.servers) == 0 {
		panic("No server/worker running")
	}

	errServe := make(chan error)
	for _, server := range a.servers {
		go func(srv factory.AppServerFactory) {
			defer func() {
				if r := recover(); r != nil {
					errServe <- fmt.Errorf("%s: %v", srv.Name(), r)
				}
			}()
			srv.Serve()
		}(server)
	}

	quitSignal := make(chan os.Signal, 1)
	signal.Notify(quitSignal, os.Interrupt, syscall.SIGTERM)

	select {
	case e := <-errServe:
		panic(e)
	case <-quitSignal:
		a.shutdown(quitSignal)
	}
}

// graceful shutdown all server, then close all dependency
func (a *App) shutdown(forceShutdown chan os.Signal) {
	fmt.Println("\x1b[34;1mGracefully shutdown... (press Ctrl+C again to force)\x1b[0m")

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, server := range a.servers {
			server.Shutdown(ctx)
		}
		for _, closer := range a.closers {
			if err := closer.Disconnect(ctx); err != nil {
				log.Printf("\x1b[31;1mDisconnect: %v\x1b[0m", err)
			}
		}
	}()

	select {
	case <-done:
		log.Println("\x1b[32;1mSuccess shutdown all server & worker\x1b[0m")
	case <-forceShutdown:
		log.Println("\x1b[31;1mForce shutdown server & worker\x1b[0m")
		cancel()
	case <-ctx.Done():
		log.Println("\x1b[31;1mContext timeout\x1b[0m")
	}
}
