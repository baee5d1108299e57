package subscription

import (
	"context"
	"fmt"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/tracer"
)

// ExtensionKey key of registration detail in execution result extensions
const ExtensionKey = "__sse"

// StartRequest parameter for register new subscription
type StartRequest struct {
	SubscriptionID *string
	Query          string
	Variables      map[string]interface{}
	OperationName  string
	SchemaName     string
	Extras         map[string]interface{}
}

// RegistrationResult result of start, Subscriber is nil when execution reported graphql errors
type RegistrationResult struct {
	Subscriber *Subscriber
	Token      string
	HubURL     *string
	Result     *ExecutionResult
}

// Registered check subscriber has been persisted
func (r *RegistrationResult) Registered() bool {
	return r.Subscriber != nil
}

// Registrar register and unregister subscribers
type Registrar struct {
	executor      QueryExecutor
	store         SubscriberStore
	tokenProvider TokenProvider
	topicBuilder  *TopicBuilder
	publicHubURL  string
	generateID    IDGenerator
}

// NewRegistrar constructor
func NewRegistrar(executor QueryExecutor, store SubscriberStore, tokenProvider TokenProvider, topicURLPattern string, opts ...OptionFunc) (*Registrar, error) {
	opt := getDefaultOption()
	for _, o := range opts {
		o(&opt)
	}

	topicBuilder, err := NewTopicBuilder(topicURLPattern)
	if err != nil {
		return nil, err
	}

	return &Registrar{
		executor:      executor,
		store:         store,
		tokenProvider: tokenProvider,
		topicBuilder:  topicBuilder,
		publicHubURL:  opt.publicHubURL,
		generateID:    opt.generateID,
	}, nil
}

// RegisterStart execute subscription query, then persist subscriber and issue subscribe token
func (r *Registrar) RegisterStart(ctx context.Context, req StartRequest) (res *RegistrationResult, err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "subscription:register_start")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("schema_name", req.SchemaName)
	trace.Log("query", req.Query)

	result, err := r.executor.Execute(ctx, ExecuteParams{
		SchemaName:    req.SchemaName,
		Query:         req.Query,
		Variables:     req.Variables,
		OperationName: req.OperationName,
		Extras:        req.Extras,
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &ExecutionResult{}
	}
	if result.HasErrors() {
		return &RegistrationResult{Result: result}, nil
	}

	channel, err := ExtractChannel(req.Query, req.OperationName)
	if err != nil {
		return nil, err
	}

	id := r.generateID()
	subscriber := &Subscriber{
		ID:             id,
		SubscriptionID: req.SubscriptionID,
		Topic:          r.topicBuilder.Build(id, channel, req.SchemaName),
		Query:          req.Query,
		Channel:        channel,
		Variables:      req.Variables,
		OperationName:  req.OperationName,
		SchemaName:     req.SchemaName,
		Extras:         req.Extras,
	}
	trace.SetTag("channel", channel)
	trace.SetTag("subscriber_id", id)

	if err := r.store.Store(ctx, subscriber); err != nil {
		return nil, err
	}

	token, err := r.tokenProvider.SubscribeToken(subscriber.Topic)
	if err != nil {
		if delErr := r.store.Delete(ctx, subscriber.ID); delErr != nil {
			logger.LogEf("rollback subscriber %s: %v", subscriber.ID, delErr)
		}
		return nil, fmt.Errorf("issue subscribe token: %w", err)
	}

	hubURL := BuildHubURL(r.publicHubURL, subscriber.Topic)
	if result.Extensions == nil {
		result.Extensions = make(map[string]interface{})
	}
	result.Extensions[ExtensionKey] = map[string]interface{}{
		"id":          subscriber.ID,
		"topic":       subscriber.Topic,
		"hubUrl":      hubURL,
		"accessToken": token,
	}

	return &RegistrationResult{
		Subscriber: subscriber,
		Token:      token,
		HubURL:     hubURL,
		Result:     result,
	}, nil
}

// RegisterStop delete subscriber, unknown id return candishared.NotFoundError
func (r *Registrar) RegisterStop(ctx context.Context, id string) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "subscription:register_stop")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("subscriber_id", id)

	if id == "" {
		return candishared.NewNotFoundError("subscriber", id)
	}
	return r.store.Delete(ctx, id)
}

// TopicBuilder get topic builder
func (r *Registrar) TopicBuilder() *TopicBuilder {
	return r.topicBuilder
}
