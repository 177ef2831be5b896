package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/zaloga/internal/inventory"
)

const (
	msgItemNotFound = "item not found"
	msgSKUExists    = "an item with this sku already exists"
)

// InventoryHandler handles the inventory endpoints. Every route is expected
// to sit behind SessionMiddleware.
type InventoryHandler struct {
	Gateway *inventory.Gateway
}

// itemID parses the {id} path value. Anything that is not an integer cannot
// name an item, so callers answer it with 404.
func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// List handles GET /inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Gateway.List(r.Context())
	if err != nil {
		jsonInternalError(w, "failed to list items", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "All inventory items",
		"total":   len(items),
		"items":   items,
	})
}

// Get handles GET /inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	item, err := h.Gateway.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, msgItemNotFound, "", "failed to get item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"item": item})
}

// Create handles POST /inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields inventory.Fields
	if err := decodeJSON(w, r, &fields); err != nil || fields == nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Gateway.Create(r.Context(), fields)
	if err != nil {
		writeError(w, err, "", msgSKUExists, "failed to create item")
		return
	}

	slog.Info("item created", "user_id", GetSession(r.Context()).UserID, "item", item.Name, "sku", item.SKU)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "new inventory added",
		"item":    item,
	})
}

// Update handles PUT /inventory/{id}.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	var fields inventory.Fields
	if err := decodeJSON(w, r, &fields); err != nil || fields == nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Gateway.Update(r.Context(), id, fields)
	if err != nil {
		writeError(w, err, msgItemNotFound, msgSKUExists, "failed to update item")
		return
	}

	slog.Info("item updated", "user_id", GetSession(r.Context()).UserID, "item_id", item.ID)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "item updated successfully",
		"item":    item,
	})
}

// Delete handles DELETE /inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	name, err := h.Gateway.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err, msgItemNotFound, "", "failed to delete item")
		return
	}

	slog.Info("item deleted", "user_id", GetSession(r.Context()).UserID, "item_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s deleted successfully", name),
	})
}
