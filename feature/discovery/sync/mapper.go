package sync

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/source"
)

// stateNames maps the source's free-text asset states to catalog statuses.
// Customers can rename states, so unrecognized values fall back to
// "installed". The keys are the vendor defaults.
var stateNames = map[string]string{
	"Active":     "in_production",
	"Non-active": "installed",
	"Sold":       "removed",
	"Stolen":     "lost_or_stolen",
	"Broken":     "broken_down",
	"Don't show": "to_be_removed",
	"Spare":      "standby_for_continuity",
	"In repair":  "being_repaired",
	"Stock":      "in_stock",
}

// MapState resolves a vendor-reported state name to a catalog CI status.
func MapState(stateName string) string {
	if status, ok := stateNames[stateName]; ok {
		return status
	}
	return "installed"
}

// Mapper turns raw discovered assets into configuration items attached to
// the run's category/product graph. One mapper serves one run; it shares
// the run's Index and ReferenceData with the software mapper.
type Mapper struct {
	index          *Index
	refs           *ReferenceData
	generateLabels bool
	log            *zap.Logger
}

// NewMapper creates an asset mapper over the run's index and references.
func NewMapper(index *Index, refs *ReferenceData, generateLabels bool, log *zap.Logger) *Mapper {
	return &Mapper{index: index, refs: refs, generateLabels: generateLabels, log: log}
}

// Map converts one raw asset into a CI and inserts it into its product's
// item list, creating category and product on first use. Assets without
// custom metadata and location records are skipped with a nil result, not
// an error. A failure is returned as a MappingError carrying the asset's
// key; the caller records it and moves on.
func (m *Mapper) Map(asset *source.RawAsset) (*catalog.ConfigurationItem, error) {
	if asset.Custom == nil {
		m.log.Info("skipping asset without custom metadata", zap.String("key", asset.ID))
		return nil, nil
	}
	if asset.Type == "Location" {
		m.log.Info("skipping location record", zap.String("key", asset.ID))
		return nil, nil
	}

	prod, err := m.mapProduct(asset)
	if err != nil {
		return nil, &MappingError{Key: asset.ID, Err: err}
	}
	ci, err := m.buildCI(asset, prod)
	if err != nil {
		return nil, &MappingError{Key: asset.ID, Err: err}
	}
	m.index.AddItem(prod, ci)
	return ci, nil
}

func (m *Mapper) mapProduct(asset *source.RawAsset) (*catalog.Product, error) {
	categoryName := asset.Type
	if categoryName == "" {
		categoryName = "Unknown"
	}
	category := m.index.Category(categoryName)

	brand := m.index.Brand(asset.Custom.Manufacturer)
	model := m.index.Model(asset.Custom.Model)
	if brand == "" && model == "" && asset.Hardware != "" {
		// The combined descriptor is "<vendor> <product ...>".
		fields := strings.Fields(asset.Hardware)
		brand = m.index.Brand(fields[0])
		if rest := strings.Join(fields[1:], " "); rest != "" {
			model = m.index.Model(rest)
		} else {
			model = m.index.Model("Unknown")
		}
	}
	if brand == "" {
		brand = m.index.Brand("Unknown")
	}
	if model == "" {
		model = m.index.Model("Unknown")
	}

	name := CleanName(brand + " " + model + " " + category.Name)
	prod := m.index.Product(category, name, brand, model, asset.Custom.SKU)
	if prod == nil {
		return nil, errors.New("could not resolve a product")
	}
	return prod, nil
}

func (m *Mapper) buildCI(asset *source.RawAsset, prod *catalog.Product) (*catalog.ConfigurationItem, error) {
	if len(asset.Names) == 0 || asset.Names[0] == "" {
		return nil, errors.New("asset has no name")
	}
	displayName := asset.Names[0]

	ci := &catalog.ConfigurationItem{
		SourceID:     asset.ID,
		SystemID:     asset.URL,
		SerialNumber: asset.Custom.SerialNumber,
		Status:       MapState(asset.Custom.State),
	}
	if m.generateLabels {
		ci.Name = prod.Name
		ci.Label = displayName
	} else {
		ci.Name = displayName
	}

	purchase := parseDate(asset.Custom.PurchaseDate)
	if !purchase.IsZero() {
		ci.InUseSince = purchase.Format("2006-01-02")
	}
	warranty := parseDate(asset.Custom.WarrantyDate)
	if !warranty.IsZero() && (purchase.IsZero() || !warranty.Before(purchase)) {
		ci.WarrantyExpiryDate = warranty.Format("2006-01-02")
	}

	if userIDs := m.mapUsers(asset); len(userIDs) > 0 {
		ci.UserIDs = userIDs
	}
	if childIDs := m.mapRelations(asset); len(childIDs) > 0 {
		ci.Relations = &catalog.CIRelations{ChildIDs: childIDs}
	}
	if siteID, ok := m.refs.Sites[asset.SiteName]; ok {
		ci.SiteID = siteID
	}
	return ci, nil
}

func (m *Mapper) mapUsers(asset *source.RawAsset) []string {
	userNames := asset.AllUsers
	if len(userNames) == 0 && asset.LastUser != "" {
		userNames = []string{asset.LastUser}
	}

	var ids []string
	for _, name := range userNames {
		if id, ok := m.refs.Users[strings.ToLower(name)]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *Mapper) mapRelations(asset *source.RawAsset) []string {
	var ids []string
	for _, sw := range asset.Softwares {
		if id, ok := m.refs.SoftwareIDs[CleanName(sw.Name)]; ok {
			ids = append(ids, id)
		}
	}
	if os := asset.OperatingSystem; os != nil && os.Caption != "" {
		if id, ok := m.refs.SoftwareIDs[CleanName(os.Caption)]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseDate accepts the source's timestamp and date-only formats. Values at
// or before the epoch count as absent, matching how the source reports
// unset dates.
func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			if t.Unix() > 0 {
				return t
			}
			return time.Time{}
		}
	}
	return time.Time{}
}
