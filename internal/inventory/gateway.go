// Package inventory implements the CRUD operations over inventory items.
package inventory

import (
	"context"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// ItemStore persists inventory items.
type ItemStore interface {
	CreateItem(ctx context.Context, item model.Item) (*model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error)
	DeleteItem(ctx context.Context, id int64) (string, error)
}

// Gateway validates requests and forwards them to the item store. Callers
// are expected to have checked the session already.
type Gateway struct {
	items ItemStore
}

// NewGateway creates a Gateway.
func NewGateway(items ItemStore) *Gateway {
	return &Gateway{items: items}
}

// List returns every item in storage order. It never returns partial results.
func (g *Gateway) List(ctx context.Context) ([]model.Item, error) {
	items, err := g.items.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Get returns a single item or model.ErrNotFound.
func (g *Gateway) Get(ctx context.Context, id int64) (*model.Item, error) {
	item, err := g.items.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return item, nil
}

// Create validates the fields and inserts a new item.
func (g *Gateway) Create(ctx context.Context, f Fields) (*model.Item, error) {
	item, err := ParseNewItem(f)
	if err != nil {
		return nil, err
	}
	return g.items.CreateItem(ctx, item)
}

// Update validates the supplied fields and applies them to the item. Fields
// are parsed before the item is looked up, so invalid input is reported even
// for an unknown id.
func (g *Gateway) Update(ctx context.Context, id int64, f Fields) (*model.Item, error) {
	patch, err := ParsePatch(f)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return g.Get(ctx, id)
	}
	return g.items.UpdateItem(ctx, id, patch)
}

// Delete removes an item and returns its name.
func (g *Gateway) Delete(ctx context.Context, id int64) (string, error) {
	return g.items.DeleteItem(ctx, id)
}
