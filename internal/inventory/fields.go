package inventory

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/erazemk/zaloga/internal/model"
)

// Fields is a decoded JSON object whose values are parsed lazily so that
// absent keys, explicit nulls and wrongly typed values can be told apart.
type Fields map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseText reads a required, non-empty string.
func parseText(name string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", model.NewValidationError(name + " is required")
	}
	return s, nil
}

// parseQuantity accepts a JSON integer or a string holding a base-10 integer.
func parseQuantity(raw json.RawMessage) (int64, error) {
	invalid := model.NewValidationError("quantity must be an integer")

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, invalid
		}
		return n, nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, invalid
	}
	if n, err := num.Int64(); err == nil {
		return n, nil
	}
	// Accept integral values written with a fraction or exponent, e.g. 5.0.
	// float64(math.MaxInt64) is exactly 2^63, so the upper bound is exclusive.
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, invalid
	}
	return int64(f), nil
}

// parsePrice accepts a JSON number or a numeric string.
func parsePrice(raw json.RawMessage) (float64, error) {
	invalid := model.NewValidationError("price must be a number")

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, invalid
		}
		return f, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, invalid
	}
	return f, nil
}

// parseDescription accepts a string or null.
func parseDescription(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, model.NewValidationError("description must be a string")
	}
	return &s, nil
}

// ParseNewItem validates the fields of a create request. Quantity and price
// default to zero when absent or null.
func ParseNewItem(f Fields) (model.Item, error) {
	var item model.Item
	var err error

	if item.Name, err = parseText("name", f["name"]); err != nil {
		return model.Item{}, err
	}
	if item.SKU, err = parseText("sku", f["sku"]); err != nil {
		return model.Item{}, err
	}
	if raw, ok := f["quantity"]; ok && !isNull(raw) {
		if item.Quantity, err = parseQuantity(raw); err != nil {
			return model.Item{}, err
		}
	}
	if raw, ok := f["price"]; ok && !isNull(raw) {
		if item.Price, err = parsePrice(raw); err != nil {
			return model.Item{}, err
		}
	}
	if raw, ok := f["description"]; ok {
		if item.Description, err = parseDescription(raw); err != nil {
			return model.Item{}, err
		}
	}

	return item, nil
}

// ParsePatch validates the fields of an update request. Every supplied field
// is checked before the patch is returned, so a single bad value rejects the
// whole update.
func ParsePatch(f Fields) (model.ItemPatch, error) {
	var p model.ItemPatch

	if raw, ok := f["name"]; ok {
		name, err := parseText("name", raw)
		if err != nil {
			return model.ItemPatch{}, err
		}
		p.Name = &name
	}
	if raw, ok := f["sku"]; ok {
		sku, err := parseText("sku", raw)
		if err != nil {
			return model.ItemPatch{}, err
		}
		p.SKU = &sku
	}
	if raw, ok := f["quantity"]; ok {
		qty, err := parseQuantity(raw)
		if err != nil {
			return model.ItemPatch{}, err
		}
		p.Quantity = &qty
	}
	if raw, ok := f["price"]; ok {
		price, err := parsePrice(raw)
		if err != nil {
			return model.ItemPatch{}, err
		}
		p.Price = &price
	}
	if raw, ok := f["description"]; ok {
		desc, err := parseDescription(raw)
		if err != nil {
			return model.ItemPatch{}, err
		}
		p.Description = desc
		p.DescriptionSet = true
	}

	return p, nil
}
