package notificationworker

// Notification bus consumer worker, feed every serialized change event to the subscription dispatcher

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golangid/gqlsubscription/codebase/factory"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/logger"
)

type notificationWorker struct {
	ctx           context.Context
	ctxCancelFunc func()
	opt           option

	broker    interfaces.Broker
	topic     string
	handler   interfaces.MessageHandler
	wg        sync.WaitGroup
	semaphore chan struct{}
	stopped   chan struct{}
}

// NewWorker create new notification bus consumer, handler usually Manager.HandleUpdate
func NewWorker(broker interfaces.Broker, topic string, handler interfaces.MessageHandler, opts ...OptionFunc) factory.AppServerFactory {
	workerInstance := &notificationWorker{
		opt:     getDefaultOption(),
		broker:  broker,
		topic:   topic,
		handler: handler,
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&workerInstance.opt)
	}

	workerInstance.semaphore = make(chan struct{}, workerInstance.opt.maxGoroutines)
	workerInstance.ctx, workerInstance.ctxCancelFunc = context.WithCancel(context.Background())

	logger.LogYellow(fmt.Sprintf(`[NOTIFICATION-WORKER] (%s topic): "%s"`, broker.GetName(), topic))
	return workerInstance
}

func (w *notificationWorker) Serve() {
	defer close(w.stopped)

	for {
		err := w.broker.GetConsumer().Consume(w.ctx, w.topic, w.dispatch)
		if w.ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.LogRed(fmt.Sprintf("notification_worker > consume %s: %v, retry in %s", w.topic, err, w.opt.retryInterval))
		}

		select {
		case <-time.After(w.opt.retryInterval):
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *notificationWorker) dispatch(ctx context.Context, message []byte) error {
	select {
	case w.semaphore <- struct{}{}:
	case <-w.ctx.Done():
		return w.ctx.Err()
	}

	w.wg.Add(1)
	go func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.LogRed(fmt.Sprintf("notification_worker > panic: %v", r))
			}
			w.wg.Done()
			<-w.semaphore
		}()

		if err := w.handler(ctx, message); err != nil {
			logger.LogE("notification_worker > " + err.Error())
		}
	}(context.WithoutCancel(ctx))

	return nil
}

func (w *notificationWorker) Shutdown(ctx context.Context) {
	defer log.Println("\x1b[33;1mStopping Notification Worker:\x1b[0m \x1b[32;1mSUCCESS\x1b[0m")

	w.ctxCancelFunc()

	done := make(chan struct{})
	go func() {
		<-w.stopped
		if runningJob := len(w.semaphore); runningJob != 0 {
			fmt.Printf("\x1b[34;1mNotification Worker:\x1b[0m waiting %d job until done...\n", runningJob)
		}
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.LogRed("notification_worker > shutdown timeout: " + ctx.Err().Error())
	}
}

func (w *notificationWorker) Name() string {
	return fmt.Sprintf("notification_worker:%s", w.broker.GetName())
}
