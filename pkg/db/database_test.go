package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), DriverSQLite, "")
	require.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown DB_DRIVER")
}

func TestOpen_SQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	gdb, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Ping(ctx, gdb))
}

func TestPool_Apply(t *testing.T) {
	gdb, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	pool := DefaultPool()
	WithPool(Pool{MaxOpen: 7, MaxIdle: 50})(&pool)
	assert.Equal(t, 7, pool.MaxOpen)
	assert.Equal(t, 50, pool.MaxIdle)
	assert.Equal(t, DefaultPool().MaxLifetime, pool.MaxLifetime)

	pool.apply(sqlDB)
	assert.Equal(t, 7, sqlDB.Stats().MaxOpenConnections)
}
