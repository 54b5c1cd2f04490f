package preference

import (
	"fmt"

	"github.com/Iron-Ham/persuade/internal/errors"
)

// Catalog is the immutable, non-empty set of items both agents argue about.
// Items keep the order they were supplied in.
type Catalog struct {
	items  []*Item
	byName map[string]*Item
}

// NewCatalog builds a catalog. It fails on an empty list, a nil item or a
// repeated name.
func NewCatalog(items ...*Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errors.ErrEmptyCatalog
	}
	c := &Catalog{
		items:  make([]*Item, 0, len(items)),
		byName: make(map[string]*Item, len(items)),
	}
	for _, item := range items {
		if item == nil {
			return nil, errors.NewValidationError("catalog contains a nil item")
		}
		if _, dup := c.byName[item.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", errors.ErrDuplicateItem, item.Name())
		}
		c.items = append(c.items, item)
		c.byName[item.Name()] = item
	}
	return c, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns the items in catalog order. The slice is a copy.
func (c *Catalog) Items() []*Item {
	if c == nil {
		return nil
	}
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Item looks up an item by name.
func (c *Catalog) Item(name string) (*Item, bool) {
	if c == nil {
		return nil, false
	}
	item, ok := c.byName[name]
	return item, ok
}

// Contains reports whether item is this catalog's item of that name.
func (c *Catalog) Contains(item *Item) bool {
	if item == nil {
		return false
	}
	found, ok := c.Item(item.Name())
	return ok && found == item
}
