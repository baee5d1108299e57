package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db, db, "")

	t.Run("store", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "subscribers" (id, channel, schema_name, data) VALUES ($1, $2, $3, $4)`)).
			WithArgs("aaa", "inbox", "", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Store(ctx, newSubscriber("aaa", "inbox", "")))
	})

	t.Run("store failure is storage error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO`).WillReturnError(errors.New("connection refused"))

		err := store.Store(ctx, newSubscriber("aaa", "inbox", ""))
		assert.Equal(t, candishared.CodeStorage, candishared.GetErrorCode(err))
	})

	t.Run("find skip corrupt and incomplete row", func(t *testing.T) {
		record, err := Encode(newSubscriber("aaa", "inbox", ""))
		require.NoError(t, err)
		incomplete, err := Encode(&subscription.Subscriber{ID: "bbb", Channel: "inbox"})
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM "subscribers" WHERE channel = $1 AND schema_name = $2`)).
			WithArgs("inbox", "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
				AddRow("zzz", []byte("corrupted")).
				AddRow("bbb", incomplete).
				AddRow("aaa", record))

		var found []*subscription.Subscriber
		err = store.FindByChannelAndSchema(ctx, "inbox", "", func(s *subscription.Subscriber) error {
			found = append(found, s)
			return nil
		})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "aaa", found[0].ID)
		assert.Equal(t, []interface{}{"a", "b"}, found[0].Variables["ids"])
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "subscribers" WHERE id = $1`)).
			WithArgs("aaa").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "subscribers" WHERE id = $1`)).
			WithArgs("aaa").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, store.Delete(ctx, "aaa"))
		assert.ErrorIs(t, store.Delete(ctx, "aaa"), candishared.ErrNotFound)
	})

	t.Run("migrate", func(t *testing.T) {
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "subscribers"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS "idx_subscribers_channel_schema"`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, store.Migrate(ctx))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
