package graphqlhandler

import (
	"context"
	"fmt"
	"time"

	"github.com/golangid/gqlsubscription/api"
	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/domain"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/subscription"
)

// ExtraViewer extras key of subscriber identity
const ExtraViewer = "user"

// GraphQLHandler model
type GraphQLHandler struct {
	schemaName string
}

// NewGraphQLHandler delivery
func NewGraphQLHandler(schemaName string) *GraphQLHandler {
	return &GraphQLHandler{schemaName: schemaName}
}

// SchemaName method
func (h *GraphQLHandler) SchemaName() string {
	return h.schemaName
}

// SchemaSource method, every embedded graphql file
func (h *GraphQLHandler) SchemaSource() string {
	return string(candihelper.LoadAllFileFromFS(api.GraphQLSchema, "graphql", ".graphql"))
}

// Resolver method
func (h *GraphQLHandler) Resolver() interface{} {
	return h
}

// Hello resolver
func (h *GraphQLHandler) Hello(ctx context.Context) string {
	return "Hello, from module: inbox"
}

type inboxArgs struct {
	To *string
}

// Inbox subscription resolver, executed with nil root value on registration
// and once per subscriber for every message sent
func (h *GraphQLHandler) Inbox(ctx context.Context, args inboxArgs) <-chan *messageResolver {
	ch := make(chan *messageResolver, 1)
	defer close(ch)

	rootValue := subscription.GetRootValueFromContext(ctx)
	if rootValue == nil {
		ch <- nil
		return ch
	}

	var message domain.Message
	if err := rootValue.DecodePayload(&message); err != nil {
		logger.LogE(fmt.Sprintf("inbox: invalid message payload: %v", err))
		rootValue.StopPropagation()
		return ch
	}

	if args.To != nil && *args.To != message.To {
		rootValue.StopPropagation()
		ch <- nil
		return ch
	}

	resolver := &messageResolver{message: message}
	if viewer, ok := subscription.GetExtrasFromContext(ctx)[ExtraViewer].(string); ok {
		resolver.viewer = &viewer
	}
	ch <- resolver
	return ch
}

type messageResolver struct {
	message domain.Message
	viewer  *string
}

func (r *messageResolver) ID() string      { return r.message.ID }
func (r *messageResolver) From() string    { return r.message.From }
func (r *messageResolver) Message() string { return r.message.Message }
func (r *messageResolver) SentAt() string  { return r.message.SentAt.Format(time.RFC3339) }
func (r *messageResolver) Viewer() *string { return r.viewer }

func (r *messageResolver) To() *string {
	if r.message.To == "" {
		return nil
	}
	return &r.message.To
}
