package subscriptionservice

import (
	"context"

	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/codebase/factory"
	"github.com/golangid/gqlsubscription/codebase/factory/dependency"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox"
	inboxgraphql "github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/delivery/graphqlhandler"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/protocol"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/subscription/executor"
	"github.com/golangid/graphql-go"
	"github.com/labstack/echo"
)

// HeaderUser request header carrying subscriber identity, captured into extras on start
const HeaderUser = "X-User"

// Engine collaborators of subscription manager
type Engine struct {
	TopicURLPattern string
	// GraphQLSchemaDir override source of default schema with every *.graphql file in directory
	GraphQLSchemaDir string
	Store            subscription.SubscriberStore
	Publisher        subscription.Publisher
	TokenProvider    subscription.TokenProvider
	Options          []subscription.OptionFunc
}

// Service model
type Service struct {
	deps      dependency.Dependency
	manager   *subscription.Manager
	modules   []factory.ModuleFactory
	name      string
	schemaDir string
}

// NewService in this service
func NewService(serviceName string, deps dependency.Dependency, engine Engine) (*Service, error) {
	s := &Service{
		deps:      deps,
		name:      serviceName,
		schemaDir: engine.GraphQLSchemaDir,
	}

	manager, err := subscription.NewManager(
		executor.NewExecutor(s.buildSchema),
		engine.Store, engine.Publisher, engine.TokenProvider,
		engine.TopicURLPattern, engine.Options...,
	)
	if err != nil {
		return nil, err
	}
	s.manager = manager

	s.modules = []factory.ModuleFactory{
		protocol.NewModule(deps, manager, ExtrasFromRequest),
		inbox.NewModule(deps, manager, ""),
	}
	return s, nil
}

// GetDependency method
func (s *Service) GetDependency() dependency.Dependency {
	return s.deps
}

// GetModules method
func (s *Service) GetModules() []factory.ModuleFactory {
	return s.modules
}

// Name method
func (s *Service) Name() string {
	return s.name
}

// Manager get subscription manager
func (s *Service) Manager() *subscription.Manager {
	return s.manager
}

// FlushNotifications deliver every spooled change event, failure is logged per event
func (s *Service) FlushNotifications(ctx context.Context) {
	s.manager.ProcessNotificationsSpool(ctx, true)
}

// HandleNotification handle change event received from notification bus
func (s *Service) HandleNotification(ctx context.Context, message []byte) error {
	return s.manager.HandleUpdate(ctx, message)
}

// buildSchema resolved lazily, modules are constructed after the manager
func (s *Service) buildSchema(schemaName string) (*graphql.Schema, error) {
	for _, m := range s.modules {
		h := m.GraphQLHandler()
		if h == nil || h.SchemaName() != schemaName {
			continue
		}

		source := h.SchemaSource()
		if schemaName == "" && s.schemaDir != "" {
			source = string(candihelper.LoadAllFile(s.schemaDir, ".graphql"))
		}
		schema, err := graphql.ParseSchema(source, h.Resolver())
		if err != nil {
			return nil, candishared.NewConfigurationError("schema %q of module %s: %v", schemaName, m.Name(), err)
		}
		return schema, nil
	}
	return nil, candishared.NewConfigurationError("schema %q is not registered", schemaName)
}

// ExtrasFromRequest capture subscriber identity header into extras
func ExtrasFromRequest(c echo.Context) (map[string]interface{}, error) {
	user := c.Request().Header.Get(HeaderUser)
	if user == "" {
		return nil, nil
	}
	return map[string]interface{}{inboxgraphql.ExtraViewer: user}, nil
}
