package categories_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/categories"
	"github.com/jeremyjsx/blogapi/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureByName_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := categories.NewSQLRepository(dbtest.New(t))

	first, err := repo.EnsureByName(ctx, "noticias")
	require.NoError(t, err)
	again, err := repo.EnsureByName(ctx, " noticias ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = repo.EnsureByName(ctx, "   ")
	assert.Error(t, err)
}

func TestList_OrderedByName(t *testing.T) {
	ctx := context.Background()
	repo := categories.NewSQLRepository(dbtest.New(t))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, name := range []string{"tutoriales", "demo", "noticias"} {
		_, err := repo.EnsureByName(ctx, name)
		require.NoError(t, err)
	}

	list, err = repo.List(ctx)
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"demo", "noticias", "tutoriales"}, names)
}

func TestExistingIDs(t *testing.T) {
	ctx := context.Background()
	repo := categories.NewSQLRepository(dbtest.New(t))

	demo, err := repo.EnsureByName(ctx, "demo")
	require.NoError(t, err)
	missing := uuid.New()

	found, err := repo.ExistingIDs(ctx, []uuid.UUID{demo.ID, missing})
	require.NoError(t, err)
	assert.True(t, found[demo.ID])
	assert.False(t, found[missing])

	found, err = repo.ExistingIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}
