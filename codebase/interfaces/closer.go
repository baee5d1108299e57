package interfaces

import "context"

// Closer abstraction
type Closer interface {
	Disconnect(ctx context.Context) error
}

// CloserFunc adapter for func as Closer
type CloserFunc func(ctx context.Context) error

// Disconnect method
func (f CloserFunc) Disconnect(ctx context.Context) error {
	return f(ctx)
}
