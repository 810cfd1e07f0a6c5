package memory_test

import (
	"context"
	"testing"

	"github.com/geocoder89/homage/internal/domain/resource"
	"github.com/geocoder89/homage/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedResources(t *testing.T, repo *memory.ResourcesRepo, names ...string) {
	t.Helper()

	actor := resource.Actor{ID: 1, Name: "Admin"}
	for _, name := range names {
		_, err := repo.Create(context.Background(), resource.CreateRequest{Name: name, Code: name}, actor)
		require.NoError(t, err)
	}
}

func TestResourcesRepo_ListSortsByName(t *testing.T) {
	repo := memory.NewResourcesRepo()
	seedResources(t, repo, "Charlie", "alpha", "Bravo", "Alpha")

	items, total, err := repo.List(context.Background(), resource.ListParams{SortBy: "name", SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Name, items[i].Name)
	}
}

func TestResourcesRepo_ListDefaultIsNewestFirst(t *testing.T) {
	repo := memory.NewResourcesRepo()
	seedResources(t, repo, "one", "two", "three")

	items, _, err := repo.List(context.Background(), resource.ListParams{})
	require.NoError(t, err)
	require.Len(t, items, 3)

	// equal timestamps fall back to id, so the last inserted comes first
	assert.Equal(t, "three", items[0].Name)
	assert.Equal(t, "one", items[2].Name)
}

func TestResourcesRepo_ListPaginates(t *testing.T) {
	repo := memory.NewResourcesRepo()
	seedResources(t, repo, "a", "b", "c", "d", "e")

	items, total, err := repo.List(context.Background(), resource.ListParams{Page: 2, PerPage: 2, SortBy: "id", SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(4), items[1].ID)

	items, _, err = repo.List(context.Background(), resource.ListParams{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestResourcesRepo_ListHugePageIsEmpty(t *testing.T) {
	repo := memory.NewResourcesRepo()
	seedResources(t, repo, "a", "b")

	items, total, err := repo.List(context.Background(), resource.ListParams{Page: 1000000000000000000, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, items)
}

func TestResourcesRepo_UpdateAndDelete(t *testing.T) {
	repo := memory.NewResourcesRepo()
	seedResources(t, repo, "Admin")

	updated, err := repo.Update(context.Background(), 1, resource.UpdateRequest{Name: "Owner"}, resource.Actor{ID: 2, Name: "Editor"})
	require.NoError(t, err)
	assert.Equal(t, "Owner", updated.Name)
	assert.Equal(t, "Admin", updated.Code)
	assert.Equal(t, resource.Actor{ID: 1, Name: "Admin"}, updated.CreatedBy)
	assert.Equal(t, resource.Actor{ID: 2, Name: "Editor"}, updated.UpdatedBy)

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 1), resource.ErrNotFound)

	_, err = repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, resource.ErrNotFound)

	_, err = repo.Update(context.Background(), 1, resource.UpdateRequest{Name: "x"}, resource.Actor{})
	assert.ErrorIs(t, err, resource.ErrNotFound)
}
