package protocol

import (
	"github.com/golangid/gqlsubscription/codebase/factory/dependency"
	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/protocol/delivery/resthandler"
)

// Name module name
const Name = "Protocol"

// Module model
type Module struct {
	restHandler *resthandler.RestHandler
}

// NewModule module constructor
func NewModule(deps dependency.Dependency, handler resthandler.MessageHandler, extrasFunc resthandler.ExtrasFunc) *Module {
	return &Module{
		restHandler: resthandler.NewRestHandler(handler, deps.GetValidator(), extrasFunc),
	}
}

// RESTHandler method
func (m *Module) RESTHandler() interfaces.EchoRestHandler {
	return m.restHandler
}

// GraphQLHandler method, protocol module has no schema
func (m *Module) GraphQLHandler() interfaces.GraphQLHandler {
	return nil
}

// Name get module name
func (m *Module) Name() string {
	return Name
}
