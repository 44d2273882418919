package sync

import (
	"strings"

	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/source"
)

// SoftwareCategory names the single category all software CIs land under.
const SoftwareCategory = "Software"

// SoftwareMapper turns software inventory rows into configuration items.
// Software has no hardware brand/model fallback and no per-asset fields:
// the CI name is the composed "<vendor> <product> <version>" string, and
// repeated installations of the same version across assets collapse into
// one CI, deduplicated by exact composed name.
type SoftwareMapper struct {
	index *Index
	seen  map[string]struct{}
}

// NewSoftwareMapper creates a software mapper over the run's index.
func NewSoftwareMapper(index *Index) *SoftwareMapper {
	return &SoftwareMapper{index: index, seen: make(map[string]struct{})}
}

// ComposedName builds the deduplication name for one software row.
func ComposedName(rec source.SoftwareRecord) string {
	return CleanName(strings.Join([]string{rec.Vendor, rec.Product, rec.Version}, " "))
}

// MapAll inserts one CI per distinct software name into the index and
// reports how many rows were new. Rows without a usable name are dropped.
func (m *SoftwareMapper) MapAll(records []source.SoftwareRecord) int {
	added := 0
	for _, rec := range records {
		name := ComposedName(rec)
		if name == "" {
			continue
		}
		if _, dup := m.seen[name]; dup {
			continue
		}
		m.seen[name] = struct{}{}

		category := m.index.Category(SoftwareCategory)
		brand := m.index.Brand(rec.Vendor)
		model := m.index.Model(rec.Product)
		prod := m.index.Product(category, name, brand, model, "")
		if prod == nil {
			continue
		}

		m.index.AddItem(prod, &catalog.ConfigurationItem{
			SourceID: rec.SoftwareID,
			Name:     name,
			Status:   "in_production",
		})
		added++
	}
	return added
}
