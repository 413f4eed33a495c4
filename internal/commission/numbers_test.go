package commission

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/nadeos/bmd-exporter/internal/commission/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestAllocator(t *testing.T) *NumberAllocator {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Number{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewNumberAllocator(zap.NewNop(), db, node)
}

func TestAllocateIsStablePerKey(t *testing.T) {
	alloc := newTestAllocator(t)
	ctx := context.Background()

	first, err := alloc.Allocate(ctx, "AB", 2025, 7)
	require.NoError(t, err)
	assert.Greater(t, first, int64(0))

	second, err := alloc.Allocate(ctx, "AB", 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAllocateDistinctKeys(t *testing.T) {
	alloc := newTestAllocator(t)
	ctx := context.Background()

	ab, err := alloc.Allocate(ctx, "AB", 2025, 7)
	require.NoError(t, err)

	cd, err := alloc.Allocate(ctx, "CD", 2025, 7)
	require.NoError(t, err)
	assert.NotEqual(t, ab, cd)

	abAugust, err := alloc.Allocate(ctx, "AB", 2025, 8)
	require.NoError(t, err)
	assert.NotEqual(t, ab, abAugust)

	// already-allocated keys keep their value
	again, err := alloc.Allocate(ctx, "AB", 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, ab, again)
}

func TestAllocateSurfacesConflictOnConcurrentInsert(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.Number{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	// Another allocation wins the key after the read missed but before
	// the insert lands.
	var raced bool
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("concurrent_number_insert", func(tx *gorm.DB) {
		if raced {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			`INSERT INTO commission_numbers (id, group_name, year, month, created_at) VALUES (?, 'AB', 2025, 7, CURRENT_TIMESTAMP)`,
			node.Generate().Int64(),
		)
	}))

	alloc := NewNumberAllocator(zap.NewNop(), gdb, node)
	_, err = alloc.Allocate(context.Background(), "AB", 2025, 7)
	assert.ErrorIs(t, err, domain.ErrNumberConflict)
}

func TestAllocateSequenceGrows(t *testing.T) {
	alloc := newTestAllocator(t)
	ctx := context.Background()

	first, err := alloc.Allocate(ctx, "AB", 2025, 7)
	require.NoError(t, err)

	second, err := alloc.Allocate(ctx, "CD", 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}
