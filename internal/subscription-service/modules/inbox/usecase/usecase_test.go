package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golangid/gqlsubscription/internal/subscription-service/modules/inbox/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) Notify(ctx context.Context, channel string, payload interface{}, schemaName string) error {
	return m.Called(ctx, channel, payload, schemaName).Error(0)
}

func TestInboxUsecase_SendMessage(t *testing.T) {
	sentAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Testcase #1: Positive, generate id and time", func(t *testing.T) {
		notifier := new(notifierMock)
		notifier.On("Notify", mock.Anything, domain.ChannelInbox, mock.AnythingOfType("*domain.Message"), "public").Return(nil)

		uc := NewInboxUsecase(notifier, "public").(*inboxUsecaseImpl)
		uc.now = func() time.Time { return sentAt }

		message := &domain.Message{From: "alice", Message: "hi"}
		assert.NoError(t, uc.SendMessage(context.Background(), message))
		assert.NotEmpty(t, message.ID)
		assert.Equal(t, sentAt, message.SentAt)
		notifier.AssertExpectations(t)
	})

	t.Run("Testcase #2: Negative, notify failed", func(t *testing.T) {
		notifier := new(notifierMock)
		notifier.On("Notify", mock.Anything, domain.ChannelInbox, mock.Anything, "").Return(errors.New("bus down"))

		uc := NewInboxUsecase(notifier, "")
		message := &domain.Message{ID: "fixed", From: "alice", Message: "hi"}
		assert.EqualError(t, uc.SendMessage(context.Background(), message), "bus down")
		assert.Equal(t, "fixed", message.ID)
	})
}
