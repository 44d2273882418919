package sync

import (
	"strings"

	"discovery-sync/feature/discovery/catalog"
)

const maxKeyLength = 128

// Normalize derives the dedup key for a raw name: lower-cased, runs of
// non-alphanumeric characters collapsed to a single underscore, leading and
// trailing underscores trimmed, truncated to 128 characters. The result is
// stable under repeated application.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pending := false
	for _, r := range strings.ToLower(raw) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte('_')
			pending = false
		}
		b.WriteRune(r)
	}

	key := b.String()
	if len(key) > maxKeyLength {
		key = key[:maxKeyLength]
	}
	return key
}

// CleanName collapses whitespace runs in a display name to single spaces
// and trims it. Software names arrive with erratic spacing from different
// scan agents; relation lookups go through this first.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

type productEntry struct {
	prod  *catalog.Product
	owner *catalog.Category
	// flushed counts the configuration items already emitted by TakeBatch.
	flushed int
}

// Index is the run-scoped dedup cache mapping normalized keys to their
// canonical Category, Product, Brand and Model records. One Index is owned
// by one orchestrator run and discarded at run end. First writer wins: a
// record is never replaced after creation, so every caller holding a key
// observes the same physical object.
type Index struct {
	categories map[string]*catalog.Category
	order      []string
	products   map[string]*productEntry
	brands     map[string]string
	models     map[string]string
}

// NewIndex creates an empty index for one run.
func NewIndex() *Index {
	return &Index{
		categories: make(map[string]*catalog.Category),
		products:   make(map[string]*productEntry),
		brands:     make(map[string]string),
		models:     make(map[string]string),
	}
}

// Category returns the canonical category for the given name, creating it on
// first use. An empty name returns nil without touching the index.
func (x *Index) Category(name string) *catalog.Category {
	if name == "" {
		return nil
	}
	key := Normalize(name)
	if key == "" {
		return nil
	}
	if known, ok := x.categories[key]; ok {
		return known
	}
	cat := &catalog.Category{
		Meta:      catalog.Meta{Strategy: "CREATE"},
		Reference: key,
		Name:      name,
	}
	x.categories[key] = cat
	x.order = append(x.order, key)
	return cat
}

// Brand returns the canonical spelling for a brand. The first spelling seen
// for a key wins. Empty input stays empty.
func (x *Index) Brand(raw string) string {
	return canonical(x.brands, raw)
}

// Model returns the canonical spelling for a model.
func (x *Index) Model(raw string) string {
	return canonical(x.models, raw)
}

func canonical(all map[string]string, raw string) string {
	if raw == "" {
		return ""
	}
	key := Normalize(raw)
	if key == "" {
		return ""
	}
	if known, ok := all[key]; ok {
		return known
	}
	all[key] = raw
	return raw
}

// Product returns the canonical product for the composed name, creating it
// under the given category on first use. An empty name or nil category
// returns nil.
func (x *Index) Product(owner *catalog.Category, name, brand, model, sku string) *catalog.Product {
	if owner == nil || name == "" {
		return nil
	}
	key := Normalize(name)
	if key == "" {
		return nil
	}
	if entry, ok := x.products[key]; ok {
		return entry.prod
	}
	prod := &catalog.Product{
		Meta:      catalog.Meta{Strategy: "CREATE"},
		SourceID:  key,
		Name:      name,
		Brand:     brand,
		Model:     model,
		ProductID: sku,
	}
	x.products[key] = &productEntry{prod: prod, owner: owner}
	owner.Products = append(owner.Products, prod)
	return prod
}

// AddItem appends a configuration item to its product. Items are never
// removed within a run.
func (x *Index) AddItem(prod *catalog.Product, ci *catalog.ConfigurationItem) {
	prod.ConfigurationItems = append(prod.ConfigurationItems, ci)
}

// TakeBatch emits the category/product graph holding only the configuration
// items added since the previous call, so each page submits its own items
// while dedup identity stays run-long. Returns nil when nothing new was
// added.
func (x *Index) TakeBatch() []*catalog.Category {
	var batch []*catalog.Category

	for _, catKey := range x.order {
		full := x.categories[catKey]
		var prods []*catalog.Product

		for _, prod := range full.Products {
			entry := x.products[Normalize(prod.Name)]
			fresh := prod.ConfigurationItems[entry.flushed:]
			if len(fresh) == 0 {
				continue
			}
			entry.flushed = len(prod.ConfigurationItems)

			shell := *prod
			shell.ConfigurationItems = fresh
			prods = append(prods, &shell)
		}

		if len(prods) > 0 {
			shell := *full
			shell.Products = prods
			batch = append(batch, &shell)
		}
	}
	return batch
}

// Categories returns the full run-long graph in creation order.
func (x *Index) Categories() []*catalog.Category {
	out := make([]*catalog.Category, 0, len(x.order))
	for _, key := range x.order {
		out = append(out, x.categories[key])
	}
	return out
}
