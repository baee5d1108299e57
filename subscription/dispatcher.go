package subscription

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/tracer"
)

// Dispatcher accept change events and deliver fresh query result to every matching subscriber
type Dispatcher struct {
	executor  QueryExecutor
	store     SubscriberStore
	publisher Publisher
	bus       Bus
	spool     *Spool
}

// NewDispatcher constructor, events are spooled until flush unless a bus is set
func NewDispatcher(executor QueryExecutor, store SubscriberStore, publisher Publisher, opts ...OptionFunc) *Dispatcher {
	opt := getDefaultOption()
	for _, o := range opts {
		o(&opt)
	}

	return &Dispatcher{
		executor:  executor,
		store:     store,
		publisher: publisher,
		bus:       opt.bus,
		spool:     NewSpool(),
	}
}

// Notify queue change event, never execute subscriber query
func (d *Dispatcher) Notify(ctx context.Context, channel string, payload interface{}, schemaName string) error {
	event := ChangeEvent{Channel: channel, SchemaName: schemaName, Payload: payload}
	if d.bus == nil {
		d.spool.Append(event)
		return nil
	}

	message, err := event.Encode()
	if err != nil {
		return candishared.NewDeliveryError(channel, schemaName, err)
	}
	if err := d.bus.Dispatch(ctx, message); err != nil {
		return candishared.NewDeliveryError(channel, schemaName, fmt.Errorf("dispatch to bus: %w", err))
	}
	return nil
}

// HandleUpdate decode serialized change event received from bus and handle it
func (d *Dispatcher) HandleUpdate(ctx context.Context, data []byte) error {
	event, err := DecodeChangeEvent(data)
	if err != nil {
		return err
	}
	return d.HandleChangeEvent(ctx, event)
}

// HandleChangeEvent execute and publish for every subscriber of event channel and schema,
// failure of one subscriber does not stop delivery to the others
func (d *Dispatcher) HandleChangeEvent(ctx context.Context, event ChangeEvent) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "subscription:handle_change_event")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("channel", event.Channel)
	trace.SetTag("schema_name", event.SchemaName)

	multiErr := candihelper.NewMultiError()
	var delivered int
	err = d.store.FindByChannelAndSchema(ctx, event.Channel, event.SchemaName, func(subscriber *Subscriber) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		multiErr.Append(subscriber.ID, d.deliver(ctx, event.Payload, subscriber))
		delivered++
		return nil
	})
	trace.SetTag("subscriber_count", delivered)
	if err != nil {
		return err
	}

	if multiErr.HasError() {
		return candishared.NewDeliveryError(event.Channel, event.SchemaName, multiErr)
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, payload interface{}, subscriber *Subscriber) (err error) {
	candihelper.TryCatch{
		Try: func() {
			rootValue := NewRootValue(payload, subscriber)
			var result *ExecutionResult
			result, err = d.executor.Execute(ctx, ExecuteParams{
				SchemaName:    subscriber.SchemaName,
				Query:         subscriber.Query,
				RootValue:     rootValue,
				Variables:     subscriber.Variables,
				OperationName: subscriber.OperationName,
				Extras:        subscriber.Extras,
			})
			if err != nil {
				return
			}
			if rootValue.IsPropagationStopped() {
				logger.LogYellow(fmt.Sprintf("subscription: propagation stopped for subscriber %s", subscriber.ID))
				return
			}
			if result == nil {
				result = &ExecutionResult{}
			}

			var data []byte
			data, err = json.Marshal(&DataMessage{ID: subscriber.ID, Payload: result})
			if err != nil {
				return
			}
			err = d.publisher.Push(ctx, Update{
				Topic:   subscriber.Topic,
				Data:    data,
				Targets: []string{subscriber.Topic},
			})
		},
		Catch: func(e error) {
			err = fmt.Errorf("panic: %w", e)
		},
	}.Do()
	return err
}

// ProcessNotificationsSpool handle every spooled event in FIFO order and clear the spool.
// With catchErrors each failure is logged as critical and the next event is processed,
// otherwise the first failure is returned and the remaining drained events are dropped.
func (d *Dispatcher) ProcessNotificationsSpool(ctx context.Context, catchErrors bool) error {
	for _, event := range d.spool.Drain() {
		if err := d.HandleChangeEvent(ctx, event); err != nil {
			if !catchErrors {
				return err
			}
			logger.LogCritical("Caught exception or error in processNotificationsSpool", err, map[string]interface{}{
				"channel":    event.Channel,
				"schemaName": event.SchemaName,
			})
		}
	}
	return nil
}

// Spool get dispatcher spool
func (d *Dispatcher) Spool() *Spool {
	return d.spool
}
