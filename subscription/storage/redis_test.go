package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) { return redis.Dial("tcp", mr.Addr()) },
	}
	defer pool.Close()

	store := NewRedisStore(pool, pool, "")
	runStoreContract(t, store)

	t.Run("skip corrupt record", func(t *testing.T) {
		require.NoError(t, mr.Set("gqlsubscription:subscriber:zzz", "corrupted"))
		_, err := mr.SAdd("gqlsubscription:channel:outbox", "zzz", "missing")
		require.NoError(t, err)

		found := collect(t, store, "outbox", "")
		require.Len(t, found, 1)
		assert.Equal(t, "ddd", found[0].ID)
	})

	t.Run("skip incomplete record", func(t *testing.T) {
		record, err := Encode(&subscription.Subscriber{ID: "yyy", Channel: "outbox"})
		require.NoError(t, err)
		require.NoError(t, mr.Set("gqlsubscription:subscriber:yyy", string(record)))
		_, err = mr.SAdd("gqlsubscription:channel:outbox", "yyy")
		require.NoError(t, err)

		found := collect(t, store, "outbox", "")
		require.Len(t, found, 1)
		assert.Equal(t, "ddd", found[0].ID)
	})

	t.Run("delete remove channel index", func(t *testing.T) {
		require.NoError(t, store.Delete(context.Background(), "ccc"))
		members, _ := mr.Members("gqlsubscription:channel:inbox@public")
		assert.Empty(t, members)
	})
}
