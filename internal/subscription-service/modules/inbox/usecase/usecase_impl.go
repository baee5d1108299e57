package usecase

import (
	"context"
	"time"

	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/domain"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/google/uuid"
)

type inboxUsecaseImpl struct {
	notifier   Notifier
	schemaName string
	now        func() time.Time
}

// NewInboxUsecase usecase impl constructor, messages are notified to subscribers of schemaName
func NewInboxUsecase(notifier Notifier, schemaName string) InboxUsecase {
	return &inboxUsecaseImpl{
		notifier:   notifier,
		schemaName: schemaName,
		now:        time.Now,
	}
}

func (uc *inboxUsecaseImpl) SendMessage(ctx context.Context, message *domain.Message) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "InboxUsecase:SendMessage")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.SentAt.IsZero() {
		message.SentAt = uc.now()
	}
	trace.SetTag("message_id", message.ID)

	return uc.notifier.Notify(ctx, domain.ChannelInbox, message, uc.schemaName)
}
