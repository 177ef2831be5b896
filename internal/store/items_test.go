package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/model"
)

func strPtr(s string) *string { return &s }

func mustCreateItem(t *testing.T, s *Store, item model.Item) *model.Item {
	t.Helper()
	created, err := s.CreateItem(context.Background(), item)
	require.NoError(t, err)
	return created
}

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := mustCreateItem(t, s, model.Item{
		Name: "Laptop", SKU: "LAP-1", Quantity: 3, Price: 999.5, Description: strPtr("Dell XPS 15"),
	})
	require.NotZero(t, item.ID)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Laptop", got.Name)
	assert.Equal(t, "LAP-1", got.SKU)
	assert.Equal(t, int64(3), got.Quantity)
	assert.Equal(t, 999.5, got.Price)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Dell XPS 15", *got.Description)
}

func TestCreateItemWithoutDescription(t *testing.T) {
	s := newTestStore(t)

	item := mustCreateItem(t, s, model.Item{Name: "Cable", SKU: "C1"})
	got, err := s.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Description)
	assert.Zero(t, got.Quantity)
	assert.Zero(t, got.Price)
}

func TestGetItemMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetItem(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateItemDuplicateSKU(t *testing.T) {
	s := newTestStore(t)

	mustCreateItem(t, s, model.Item{Name: "First", SKU: "DUP"})
	_, err := s.CreateItem(context.Background(), model.Item{Name: "Second", SKU: "DUP"})
	require.ErrorIs(t, err, model.ErrConflict)

	assert.Equal(t, 1, countRows(t, s, "inventory"))
}

func TestListItemsInStorageOrder(t *testing.T) {
	s := newTestStore(t)

	mustCreateItem(t, s, model.Item{Name: "Zebra", SKU: "Z"})
	mustCreateItem(t, s, model.Item{Name: "Apple", SKU: "A"})

	items, err := s.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Zebra", items[0].Name)
	assert.Equal(t, "Apple", items[1].Name)
}

func TestUpdateItemPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := mustCreateItem(t, s, model.Item{Name: "Widget", SKU: "W1", Quantity: 5, Price: 2.5, Description: strPtr("blue")})

	qty := int64(10)
	updated, err := s.UpdateItem(ctx, item.ID, model.ItemPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.Quantity)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	want := *item
	want.Quantity = 10
	assert.Equal(t, &want, got, "untouched fields changed")

	// Explicit null clears the description.
	_, err = s.UpdateItem(ctx, item.ID, model.ItemPatch{DescriptionSet: true})
	require.NoError(t, err)
	got, err = s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
}

func TestUpdateItemConflictLeavesRowUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	target := mustCreateItem(t, s, model.Item{Name: "Target", SKU: "T1", Quantity: 1, Price: 1})
	mustCreateItem(t, s, model.Item{Name: "Other", SKU: "O1"})

	name := "Renamed"
	_, err := s.UpdateItem(ctx, target.ID, model.ItemPatch{Name: &name, SKU: strPtr("O1")})
	require.ErrorIs(t, err, model.ErrConflict)

	got, err := s.GetItem(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestUpdateItemMissing(t *testing.T) {
	s := newTestStore(t)

	qty := int64(1)
	_, err := s.UpdateItem(context.Background(), 99, model.ItemPatch{Quantity: &qty})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := mustCreateItem(t, s, model.Item{Name: "Delete Me", SKU: "DM"})

	name, err := s.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Delete Me", name)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.DeleteItem(ctx, item.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
