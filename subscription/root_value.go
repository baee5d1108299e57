package subscription

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/golangid/gqlsubscription/candishared"
)

// RootValue carry change payload and the target subscriber into one query re-execution,
// a new instance is created for every subscriber and every execution
type RootValue struct {
	payload    interface{}
	subscriber *Subscriber
	stopped    atomic.Bool
}

// NewRootValue constructor
func NewRootValue(payload interface{}, subscriber *Subscriber) *RootValue {
	return &RootValue{payload: payload, subscriber: subscriber}
}

// Payload get change payload
func (r *RootValue) Payload() interface{} {
	return r.payload
}

// DecodePayload decode payload into target, payload delivered through bus is a generic json value
func (r *RootValue) DecodePayload(target interface{}) error {
	raw, ok := r.payload.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = json.Marshal(r.payload); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, target)
}

// Subscriber get target subscriber
func (r *RootValue) Subscriber() *Subscriber {
	return r.subscriber
}

// StopPropagation suppress delivery of current execution result
func (r *RootValue) StopPropagation() {
	r.stopped.Store(true)
}

// IsPropagationStopped method
func (r *RootValue) IsPropagationStopped() bool {
	return r.stopped.Load()
}

// SetRootValueToContext set root value for resolver
func SetRootValueToContext(ctx context.Context, rootValue *RootValue) context.Context {
	return candishared.SetToContext(ctx, candishared.ContextKeyRootValue, rootValue)
}

// GetRootValueFromContext get root value, nil when query is executed on registration
func GetRootValueFromContext(ctx context.Context) *RootValue {
	rootValue, _ := candishared.GetValueFromContext(ctx, candishared.ContextKeyRootValue).(*RootValue)
	return rootValue
}

// SetExtrasToContext set subscriber extras for resolver
func SetExtrasToContext(ctx context.Context, extras map[string]interface{}) context.Context {
	return candishared.SetToContext(ctx, candishared.ContextKeyExtras, extras)
}

// GetExtrasFromContext get subscriber extras
func GetExtrasFromContext(ctx context.Context) map[string]interface{} {
	extras, _ := candishared.GetValueFromContext(ctx, candishared.ContextKeyExtras).(map[string]interface{})
	return extras
}
