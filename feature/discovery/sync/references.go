package sync

// ReferenceData holds the catalog-side lookups the mapper resolves relations
// against. Built up during a run: sites and users are looked up on first
// sight, software ids are recorded from the software phase's upload results.
type ReferenceData struct {
	// Users maps a lower-cased account name or email to a catalog person id.
	Users map[string]string
	// SoftwareIDs maps a cleaned software name to the catalog id of its CI.
	SoftwareIDs map[string]string
	// Sites maps a source site name to its catalog site id.
	Sites map[string]string
}

// NewReferenceData creates empty reference maps for one run.
func NewReferenceData() *ReferenceData {
	return &ReferenceData{
		Users:       make(map[string]string),
		SoftwareIDs: make(map[string]string),
		Sites:       make(map[string]string),
	}
}
