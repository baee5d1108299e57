package factory

import (
	"github.com/golangid/gqlsubscription/codebase/interfaces"
)

// ModuleFactory factory
type ModuleFactory interface {
	RESTHandler() interfaces.EchoRestHandler
	// GraphQLHandler return nil when module has no subscription schema
	GraphQLHandler() interfaces.GraphQLHandler
	Name() string
}
