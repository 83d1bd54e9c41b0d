package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardshop/internal/models"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	gdb, err := Open("sqlite:file::memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	require.NoError(t, Ping(context.Background(), gdb))

	assert.True(t, gdb.Migrator().HasTable(&models.Product{}))
	assert.True(t, gdb.Migrator().HasTable(&models.Cart{}))
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	gdb, err := Open("sqlite:file::memory:")
	require.NoError(t, err)

	require.NoError(t, Close(gdb))
	assert.Error(t, Ping(context.Background(), gdb), "pool is closed")
}

func TestPing_HonoursContext(t *testing.T) {
	gdb, err := Open("sqlite:file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Ping(ctx, gdb), context.Canceled)
}
