package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/journal-terminal/internal/achievement"
)

func TestMigrate_SeedsCatalogIdempotently(t *testing.T) {
	gdb, err := Open("file:migrate_test?mode=memory&cache=shared")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, gdb))
	require.NoError(t, Migrate(ctx, gdb))

	var n int64
	require.NoError(t, gdb.Model(&achievement.Achievement{}).Count(&n).Error)
	assert.Equal(t, int64(len(achievement.Catalog())), n)
}
