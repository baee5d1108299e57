package inbox

import (
	"github.com/golangid/gqlsubscription/codebase/factory/dependency"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/delivery/graphqlhandler"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/delivery/resthandler"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/usecase"
)

// Name module name
const Name = "Inbox"

// Module model
type Module struct {
	restHandler    *resthandler.RestHandler
	graphqlHandler *graphqlhandler.GraphQLHandler
}

// NewModule module constructor, inbox schema is registered as schemaName
func NewModule(deps dependency.Dependency, notifier usecase.Notifier, schemaName string) *Module {
	uc := usecase.NewInboxUsecase(notifier, schemaName)

	var mod Module
	mod.restHandler = resthandler.NewRestHandler(uc, deps.GetValidator())
	mod.graphqlHandler = graphqlhandler.NewGraphQLHandler(schemaName)
	return &mod
}

// RESTHandler method
func (m *Module) RESTHandler() interfaces.EchoRestHandler {
	return m.restHandler
}

// GraphQLHandler method
func (m *Module) GraphQLHandler() interfaces.GraphQLHandler {
	return m.graphqlHandler
}

// Name get module name
func (m *Module) Name() string {
	return Name
}
