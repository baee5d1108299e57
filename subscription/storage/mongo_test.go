package storage

import (
	"context"
	"testing"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("store", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, mt.DB, mt.Coll.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, store.Store(context.Background(), newSubscriber("aaa", "inbox", "")))
	})

	mt.Run("find", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		record, err := Encode(newSubscriber("aaa", "inbox", ""))
		require.NoError(mt, err)
		incomplete, err := Encode(&subscription.Subscriber{ID: "ccc", Channel: "inbox"})
		require.NoError(mt, err)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: "aaa"},
					{Key: "channel", Value: "inbox"},
					{Key: "schemaName", Value: ""},
					{Key: "data", Value: record},
				},
				bson.D{
					{Key: "_id", Value: "bbb"},
					{Key: "channel", Value: "inbox"},
					{Key: "data", Value: "corrupted"},
				},
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, bson.D{
				{Key: "_id", Value: "ccc"},
				{Key: "channel", Value: "inbox"},
				{Key: "schemaName", Value: ""},
				{Key: "data", Value: incomplete},
			}),
		)

		var found []*subscription.Subscriber
		err = store.FindByChannelAndSchema(context.Background(), "inbox", "", func(s *subscription.Subscriber) error {
			found = append(found, s)
			return nil
		})
		require.NoError(mt, err)
		require.Len(mt, found, 1)
		assert.Equal(mt, "aaa", found[0].ID)
		assert.Equal(mt, "inbox", found[0].Channel)
		assert.Equal(mt, []interface{}{"a", "b"}, found[0].Variables["ids"])
		assert.Equal(mt, map[string]interface{}{"tags": []interface{}{"x"}}, found[0].Variables["filter"])
		assert.Equal(mt, "admin", found[0].Extras["user"])
	})

	mt.Run("delete", func(mt *mtest.T) {
		store := NewMongoStore(mt.DB, mt.DB, mt.Coll.Name())
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		assert.NoError(mt, store.Delete(context.Background(), "aaa"))
		assert.ErrorIs(mt, store.Delete(context.Background(), "aaa"), candishared.ErrNotFound)
	})
}
