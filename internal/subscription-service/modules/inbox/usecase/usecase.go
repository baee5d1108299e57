package usecase

import (
	"context"

	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/domain"
)

// InboxUsecase abstraction
type InboxUsecase interface {
	SendMessage(ctx context.Context, message *domain.Message) error
}

// Notifier queue change of a channel for every subscriber
type Notifier interface {
	Notify(ctx context.Context, channel string, payload interface{}, schemaName string) error
}
