package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

const itemColumns = `id, name, sku, quantity, price, description`

// CreateItem inserts a new inventory item and returns it with its assigned
// ID. A duplicate SKU yields model.ErrConflict and nothing is written.
func (s *Store) CreateItem(ctx context.Context, item model.Item) (*model.Item, error) {
	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO inventory (name, sku, quantity, price, description)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		item.Name, item.SKU, item.Quantity, item.Price, item.Description,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("creating item with sku %q: %w", item.SKU, model.ErrConflict)
		}
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return &item, nil
}

// GetItem returns an item by ID, or nil if it does not exist.
func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.getItem(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

func (s *Store) getItem(ctx context.Context, q querier, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description sql.NullString
	err := q.QueryRowContext(ctx,
		s.q(`SELECT `+itemColumns+` FROM inventory WHERE id = ?`), id,
	).Scan(&item.ID, &item.Name, &item.SKU, &item.Quantity, &item.Price, &description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if description.Valid {
		item.Description = &description.String
	}
	return item, nil
}

// ListItems returns every inventory item in storage order.
func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inventory ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.SKU, &item.Quantity, &item.Price, &description); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if description.Valid {
			item.Description = &description.String
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// UpdateItem applies patch to the item with the given ID inside a single
// transaction. Unknown IDs yield model.ErrNotFound and SKU collisions yield
// model.ErrConflict; in both cases the row is left unchanged.
func (s *Store) UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := s.getItem(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("updating item %d: %w", id, model.ErrNotFound)
	}

	patch.Apply(item)

	_, err = tx.ExecContext(ctx,
		s.q(`UPDATE inventory SET name = ?, sku = ?, quantity = ?, price = ?, description = ?
		 WHERE id = ?`),
		item.Name, item.SKU, item.Quantity, item.Price, item.Description, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("updating item %d sku to %q: %w", id, item.SKU, model.ErrConflict)
		}
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item and returns its name.
func (s *Store) DeleteItem(ctx context.Context, id int64) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRowContext(ctx, s.q(`SELECT name FROM inventory WHERE id = ?`), id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("deleting item %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("loading item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM inventory WHERE id = ?`), id); err != nil {
		return "", fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing item deletion: %w", err)
	}
	return name, nil
}
