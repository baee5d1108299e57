package interfaces

import (
	"github.com/golangid/gqlsubscription/codebase/factory/types"
)

// Broker abstraction
type Broker interface {
	GetName() types.Worker
	GetPublisher() Publisher
	GetConsumer() Consumer
	Health() map[string]error
	Closer
}
