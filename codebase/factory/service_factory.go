package factory

import (
	"github.com/golangid/gqlsubscription/codebase/factory/dependency"
)

// ServiceFactory factory
type ServiceFactory interface {
	GetDependency() dependency.Dependency
	GetModules() []ModuleFactory
	Name() string
}
