package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriber(id, channel, schemaName string) *subscription.Subscriber {
	clientID := "1"
	return &subscription.Subscriber{
		ID:             id,
		SubscriptionID: &clientID,
		Topic:          "https://graphql.org/subscriptions/" + id,
		Query:          "subscription { " + channel + " { message } }",
		Channel:        channel,
		Variables: map[string]interface{}{
			"limit":  "10",
			"ids":    []interface{}{"a", "b"},
			"filter": map[string]interface{}{"tags": []interface{}{"x"}},
		},
		OperationName: "",
		SchemaName:    schemaName,
		Extras:        map[string]interface{}{"user": "admin"},
	}
}

func collect(t *testing.T, store subscription.SubscriberStore, channel, schemaName string) []*subscription.Subscriber {
	var result []*subscription.Subscriber
	require.NoError(t, store.FindByChannelAndSchema(context.Background(), channel, schemaName, func(s *subscription.Subscriber) error {
		result = append(result, s)
		return nil
	}))
	return result
}

// runStoreContract scenario shared by every SubscriberStore implementation
func runStoreContract(t *testing.T, store subscription.SubscriberStore) {
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, newSubscriber("aaa", "inbox", "")))
	require.NoError(t, store.Store(ctx, newSubscriber("bbb", "inbox", "")))
	require.NoError(t, store.Store(ctx, newSubscriber("ccc", "inbox", "public")))
	require.NoError(t, store.Store(ctx, newSubscriber("ddd", "outbox", "")))

	found := collect(t, store, "inbox", "")
	require.Len(t, found, 2)
	ids := []string{found[0].ID, found[1].ID}
	assert.ElementsMatch(t, []string{"aaa", "bbb"}, ids)
	for _, s := range found {
		assert.Equal(t, "inbox", s.Channel)
		assert.Equal(t, "https://graphql.org/subscriptions/"+s.ID, s.Topic)
		assert.Equal(t, "10", s.Variables["limit"])
		assert.Equal(t, []interface{}{"a", "b"}, s.Variables["ids"])
		assert.Equal(t, map[string]interface{}{"tags": []interface{}{"x"}}, s.Variables["filter"])
		assert.Equal(t, "admin", s.Extras["user"])
		require.NotNil(t, s.SubscriptionID)
		assert.Equal(t, "1", *s.SubscriptionID)
	}

	found = collect(t, store, "inbox", "public")
	require.Len(t, found, 1)
	assert.Equal(t, "ccc", found[0].ID)

	assert.Empty(t, collect(t, store, "unknown", ""))

	stopErr := errors.New("stop")
	err := store.FindByChannelAndSchema(ctx, "inbox", "", func(*subscription.Subscriber) error { return stopErr })
	assert.ErrorIs(t, err, stopErr)

	require.NoError(t, store.Delete(ctx, "aaa"))
	found = collect(t, store, "inbox", "")
	require.Len(t, found, 1)
	assert.Equal(t, "bbb", found[0].ID)

	err = store.Delete(ctx, "aaa")
	assert.ErrorIs(t, err, candishared.ErrNotFound)
	var notFound *candishared.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestCodec(t *testing.T) {
	subscriber := newSubscriber("aaa", "inbox", "public")
	data, err := Encode(subscriber)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, subscriber.ID, decoded.ID)
	assert.Equal(t, subscriber.Query, decoded.Query)
	assert.Equal(t, subscriber.SchemaName, decoded.SchemaName)
	assert.Equal(t, "admin", decoded.Extras["user"])
	assert.Equal(t, []interface{}{"a", "b"}, decoded.Variables["ids"])

	_, err = Decode([]byte("not compressed"))
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	runStoreContract(t, store)

	t.Run("skip incomplete record", func(t *testing.T) {
		require.NoError(t, store.Store(context.Background(), &subscription.Subscriber{ID: "zzz", Channel: "outbox"}))
		found := collect(t, store, "outbox", "")
		require.Len(t, found, 1)
		assert.Equal(t, "ddd", found[0].ID)
	})
}

func TestFilesystemStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subscriptions")
	store, err := NewFilesystemStore(dir, 0o755)
	require.NoError(t, err)

	runStoreContract(t, store)

	t.Run("file name contains id, channel and schema name", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(dir, "ccc--inbox@public"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "bbb--inbox"))
		assert.NoError(t, err)
	})

	t.Run("skip corrupt record", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "zzz--outbox"), []byte("corrupted"), 0o644))
		found := collect(t, store, "outbox", "")
		require.Len(t, found, 1)
		assert.Equal(t, "ddd", found[0].ID)
	})

	t.Run("skip incomplete record", func(t *testing.T) {
		record, err := Encode(&subscription.Subscriber{})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "abc--outbox"), record, 0o644))

		found := collect(t, store, "outbox", "")
		require.Len(t, found, 1)
		assert.Equal(t, "ddd", found[0].ID)
	})
}
