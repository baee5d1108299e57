package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/golangid/graphql-go"
)

// SchemaBuilder resolve graphql schema by schema name
type SchemaBuilder func(schemaName string) (*graphql.Schema, error)

// StaticSchemas schema builder from fixed schema map, empty schema name use default schema
func StaticSchemas(defaultSchema *graphql.Schema, named map[string]*graphql.Schema) SchemaBuilder {
	return func(schemaName string) (*graphql.Schema, error) {
		if schemaName == "" && defaultSchema != nil {
			return defaultSchema, nil
		}
		if schema, ok := named[schemaName]; ok {
			return schema, nil
		}
		return nil, candishared.NewConfigurationError("schema %q is not registered", schemaName)
	}
}

// Executor run subscription document with github.com/golangid/graphql-go and take the first response.
// Subscription resolver read the change payload with subscription.GetRootValueFromContext,
// root value is nil when the document is executed on registration.
type Executor struct {
	builder SchemaBuilder

	mu    sync.RWMutex
	cache map[string]*graphql.Schema
}

// NewExecutor constructor
func NewExecutor(builder SchemaBuilder) *Executor {
	return &Executor{builder: builder, cache: make(map[string]*graphql.Schema)}
}

func (e *Executor) schema(schemaName string) (*graphql.Schema, error) {
	e.mu.RLock()
	schema, ok := e.cache[schemaName]
	e.mu.RUnlock()
	if ok {
		return schema, nil
	}

	schema, err := e.builder(schemaName)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[schemaName] = schema
	e.mu.Unlock()
	return schema, nil
}

// Execute method
func (e *Executor) Execute(ctx context.Context, params subscription.ExecuteParams) (result *subscription.ExecutionResult, err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "graphql:execute")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("schema_name", params.SchemaName)
	trace.SetTag("operation_name", params.OperationName)

	schema, err := e.schema(params.SchemaName)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx = candishared.SetToContext(ctx, candishared.ContextKeySchemaName, params.SchemaName)
	ctx = subscription.SetExtrasToContext(ctx, params.Extras)
	if params.RootValue != nil {
		ctx = subscription.SetRootValueToContext(ctx, params.RootValue)
	}

	responses, err := schema.Subscribe(ctx, params.Query, params.OperationName, params.Variables)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp, ok := <-responses:
		if !ok {
			return &subscription.ExecutionResult{}, nil
		}
		return convertResponse(resp)
	}
}

func convertResponse(resp interface{}) (*subscription.ExecutionResult, error) {
	gqlResp, ok := resp.(*graphql.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected graphql response %T", resp)
	}

	result := &subscription.ExecutionResult{
		Data:       gqlResp.Data,
		Extensions: gqlResp.Extensions,
	}
	if len(gqlResp.Errors) > 0 {
		// keep message, locations, path and extensions as rendered by the engine
		raw, err := json.Marshal(gqlResp.Errors)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &result.Errors); err != nil {
			return nil, err
		}
	}
	return result, nil
}
