package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/category/store"
	"github.com/MrJamesThe3rd/ledger/internal/database/databasetest"
)

func TestStore_GetOrCreate_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := store.New(databasetest.New(t))

	first, err := s.GetOrCreate(ctx, "food")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	second, err := s.GetOrCreate(ctx, "food")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	cats, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestStore_List_OrderedByName(t *testing.T) {
	ctx := context.Background()
	s := store.New(databasetest.New(t))

	for _, name := range []string{"transport", "food", "rent"} {
		_, err := s.GetOrCreate(ctx, name)
		require.NoError(t, err)
	}

	cats, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "food", cats[0].Name)
	assert.Equal(t, "rent", cats[1].Name)
	assert.Equal(t, "transport", cats[2].Name)
}

func TestStore_Delete_NullsRecordCategory(t *testing.T) {
	ctx := context.Background()
	db := databasetest.New(t)
	s := store.New(db)

	c, err := s.GetOrCreate(ctx, "food")
	require.NoError(t, err)

	databasetest.MustExec(t, db, `
		INSERT INTO records (type, amount_cents, occurred_on, payment_method_id, category_id, note, created_at, updated_at)
		VALUES ('expense', 100, '2024-03-15', 1, ?, '', '2024-03-15T00:00:00Z', '2024-03-15T00:00:00Z')`, c.ID)

	require.NoError(t, s.Delete(ctx, c.ID))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(1) FROM records WHERE category_id IS NULL`).Scan(&n))
	assert.Equal(t, 1, n)

	cats, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestStore_Delete_Missing(t *testing.T) {
	s := store.New(databasetest.New(t))
	assert.NoError(t, s.Delete(context.Background(), 42))
}
