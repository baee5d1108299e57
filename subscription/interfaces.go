package subscription

import (
	"context"
	"encoding/json"
)

type (
	// QueryExecutor run a graphql document against the schema identified by schema name
	QueryExecutor interface {
		Execute(ctx context.Context, params ExecuteParams) (*ExecutionResult, error)
	}

	// TokenProvider issue subscribe token for a topic
	TokenProvider interface {
		SubscribeToken(topic string) (string, error)
	}

	// Publisher push update to pub/sub hub
	Publisher interface {
		Push(ctx context.Context, update Update) error
	}

	// Bus hand off serialized change event to message bus for asynchronous delivery
	Bus interface {
		Dispatch(ctx context.Context, message []byte) error
	}

	// SubscriberStore persistence of subscriber record
	SubscriberStore interface {
		Store(ctx context.Context, subscriber *Subscriber) error
		// FindByChannelAndSchema stream every subscriber matching channel and schema name to handleFunc,
		// corrupt record is skipped, error from handleFunc stop the scan and returned
		FindByChannelAndSchema(ctx context.Context, channel, schemaName string, handleFunc func(*Subscriber) error) error
		// Delete return candishared.NotFoundError when id is not registered
		Delete(ctx context.Context, id string) error
	}
)

// ExecuteParams parameter for QueryExecutor
type ExecuteParams struct {
	SchemaName    string
	Query         string
	RootValue     *RootValue
	Variables     map[string]interface{}
	OperationName string
	Extras        map[string]interface{}
}

// ExecutionResult graphql shaped execution result
type ExecutionResult struct {
	Data       json.RawMessage        `json:"data,omitempty"`
	Errors     []ResultError          `json:"errors,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// HasErrors check result contains graphql errors
func (r *ExecutionResult) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// ResultError graphql error
type ResultError struct {
	Message    string                 `json:"message"`
	Locations  []ErrorLocation        `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// ErrorLocation location of error in graphql document
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Update message to be pushed to hub
type Update struct {
	Topic   string
	Data    []byte
	Targets []string
}

// QueryExecutorFunc adapter for func as QueryExecutor
type QueryExecutorFunc func(ctx context.Context, params ExecuteParams) (*ExecutionResult, error)

// Execute method
func (f QueryExecutorFunc) Execute(ctx context.Context, params ExecuteParams) (*ExecutionResult, error) {
	return f(ctx, params)
}

// TokenProviderFunc adapter for func as TokenProvider
type TokenProviderFunc func(topic string) (string, error)

// SubscribeToken method
func (f TokenProviderFunc) SubscribeToken(topic string) (string, error) {
	return f(topic)
}

// PublisherFunc adapter for func as Publisher
type PublisherFunc func(ctx context.Context, update Update) error

// Push method
func (f PublisherFunc) Push(ctx context.Context, update Update) error {
	return f(ctx, update)
}

// BusFunc adapter for func as Bus
type BusFunc func(ctx context.Context, message []byte) error

// Dispatch method
func (f BusFunc) Dispatch(ctx context.Context, message []byte) error {
	return f(ctx, message)
}
