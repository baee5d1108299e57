package subscription

import (
	"context"
	"errors"

	"github.com/golangid/gqlsubscription/candishared"
)

// Manager subscription registration and notification dispatch engine
type Manager struct {
	*Registrar
	*Dispatcher
}

// NewManager construct manager, return candishared.ConfigurationError when topic url pattern is invalid
func NewManager(executor QueryExecutor, store SubscriberStore, publisher Publisher, tokenProvider TokenProvider, topicURLPattern string, opts ...OptionFunc) (*Manager, error) {
	registrar, err := NewRegistrar(executor, store, tokenProvider, topicURLPattern, opts...)
	if err != nil {
		return nil, err
	}

	return &Manager{
		Registrar:  registrar,
		Dispatcher: NewDispatcher(executor, store, publisher, opts...),
	}, nil
}

// Handle client protocol message and build the response message.
// Client errors (invalid query, invalid operation, unknown subscriber) become error message,
// other failure such as storage error is returned.
func (m *Manager) Handle(ctx context.Context, message Message, schemaName string, extras map[string]interface{}) (Message, error) {
	switch msg := message.(type) {
	case *StartMessage:
		res, err := m.RegisterStart(ctx, StartRequest{
			SubscriptionID: msg.ID,
			Query:          msg.Payload.Query,
			Variables:      msg.Payload.Variables,
			OperationName:  msg.Payload.OperationName,
			SchemaName:     schemaName,
			Extras:         extras,
		})
		if err != nil {
			if candishared.IsClientError(err) {
				return &ErrorMessage{ID: msg.ID, Payload: errorResult(err)}, nil
			}
			return nil, err
		}
		if !res.Registered() {
			return &ErrorMessage{ID: msg.ID, Payload: res.Result}, nil
		}

		id := res.Subscriber.ID
		if msg.ID != nil {
			id = *msg.ID
		}
		return &DataMessage{ID: id, Payload: res.Result}, nil

	case *StopMessage:
		id := msg.ID
		err := m.RegisterStop(ctx, id)
		switch {
		case err == nil:
			return &SuccessMessage{ID: &id}, nil
		case errors.Is(err, candishared.ErrNotFound):
			return &ErrorMessage{ID: &id, Payload: errorResult(err)}, nil
		}
		return nil, err

	case *DataMessage, *ErrorMessage, *SuccessMessage:
		return nil, candishared.NewInvalidMessageError(`Only "%s", "%s" types are handled but got %q.`,
			MessageTypeStart, MessageTypeStop, message.Type())
	}

	return nil, candishared.NewInvalidMessageError("unknown message %T", message)
}

func errorResult(err error) *ExecutionResult {
	return &ExecutionResult{Errors: []ResultError{{Message: err.Error()}}}
}
