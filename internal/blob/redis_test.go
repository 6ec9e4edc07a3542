package blob

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedis(t *testing.T) {
	_, rdb := newMiniRedis(t)
	storeContract(t, NewRedis(rdb, "merceria:"))
}

func TestRedis_HashPerKey(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	s := NewRedis(rdb, "merceria:")

	require.NoError(t, s.Put(context.Background(), "merceria.xlsx", Object{Data: []byte("PK\x03\x04"), ContentType: "application/zip"}))

	assert.True(t, mr.Exists("merceria:merceria.xlsx"), "key is prefixed")
	assert.Equal(t, "hash", mr.Type("merceria:merceria.xlsx"))
	assert.Equal(t, "PK\x03\x04", mr.HGet("merceria:merceria.xlsx", "data"))
	assert.Equal(t, "application/zip", mr.HGet("merceria:merceria.xlsx", "content_type"))
	assert.NotEmpty(t, mr.HGet("merceria:merceria.xlsx", "updated_at"))
}

func TestRedis_Unreachable(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	s := NewRedis(rdb, "")
	mr.Close()

	_, err := s.Get(context.Background(), "merceria.xlsx")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = s.Put(context.Background(), "merceria.xlsx", Object{Data: []byte("x")})
	assert.Error(t, err)
}

func TestOpenRedis_BadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "not-a-url")
	assert.Error(t, err)
}
