package model

// Item is a single row of the inventory table.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
}

// ItemPatch holds the fields supplied to a partial update. Nil fields are
// left untouched.
type ItemPatch struct {
	Name     *string
	SKU      *string
	Quantity *int64
	Price    *float64

	// Description is only applied when DescriptionSet is true, so that an
	// explicit null can clear it.
	Description    *string
	DescriptionSet bool
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.SKU == nil && p.Quantity == nil && p.Price == nil && !p.DescriptionSet
}

// Apply copies the supplied fields onto item.
func (p ItemPatch) Apply(item *Item) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.SKU != nil {
		item.SKU = *p.SKU
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.DescriptionSet {
		item.Description = p.Description
	}
}
