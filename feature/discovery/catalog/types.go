package catalog

// Meta carries the upsert strategy for a record in a discovery upload.
type Meta struct {
	Strategy string `json:"strategy"`
}

// CIRelations links a configuration item to its child items, e.g. installed
// software under a hardware asset.
type CIRelations struct {
	ChildIDs []string `json:"childIds"`
}

// ConfigurationItem is one discovered asset as submitted to the catalog.
type ConfigurationItem struct {
	SourceID           string       `json:"sourceID"`
	SystemID           string       `json:"systemID,omitempty"`
	Status             string       `json:"status"`
	Name               string       `json:"name"`
	Label              string       `json:"label,omitempty"`
	SerialNumber       string       `json:"serialNr,omitempty"`
	InUseSince         string       `json:"inUseSince,omitempty"`
	WarrantyExpiryDate string       `json:"warrantyExpiryDate,omitempty"`
	SiteID             string       `json:"siteId,omitempty"`
	UserIDs            []string     `json:"userIds,omitempty"`
	Relations          *CIRelations `json:"ciRelations,omitempty"`
}

// Product groups configuration items of the same brand/model/category. A
// product belongs to exactly one category for the duration of a run.
type Product struct {
	Meta               Meta                 `json:"meta"`
	SourceID           string               `json:"sourceID"`
	Name               string               `json:"name"`
	Brand              string               `json:"brand,omitempty"`
	Model              string               `json:"model,omitempty"`
	ProductID          string               `json:"productID,omitempty"`
	ConfigurationItems []*ConfigurationItem `json:"configurationItems"`
}

// Category owns products. Created lazily the first time an asset resolves to
// a new category key.
type Category struct {
	Meta      Meta       `json:"meta"`
	Reference string     `json:"reference"`
	Name      string     `json:"name"`
	Products  []*Product `json:"products"`
}

// ReferenceStrategies controls how the catalog merges list-valued references
// on repeated uploads.
type ReferenceStrategies struct {
	CIUserIDs Meta `json:"ciUserIds"`
}

// UploadInput is one batch of discovered assets.
type UploadInput struct {
	Source              string              `json:"source"`
	AlternativeSources  []string            `json:"alternativeSources,omitempty"`
	ReferenceStrategies ReferenceStrategies `json:"referenceStrategies"`
	PhysicalAssets      []*Category         `json:"physicalAssets"`
}

// Reference identifies a record on the catalog side.
type Reference struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceID,omitempty"`
	Name     string `json:"name,omitempty"`
}

// FieldError is one field-level rejection reported by the catalog.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AsyncQuery is the opaque handle for a batch whose outcome must be polled.
type AsyncQuery struct {
	ID        string `json:"id"`
	ResultURL string `json:"resultUrl"`
}

// BatchResult is what a batch submission returns: either inline results or
// an async handle, never both.
type BatchResult struct {
	ConfigurationItems []Reference  `json:"configurationItems"`
	Errors             []FieldError `json:"errors"`
	AsyncQuery         *AsyncQuery  `json:"asyncQuery"`
}

// AsyncResult is the final payload of a completed async batch.
type AsyncResult struct {
	ConfigurationItems []Reference  `json:"configurationItems"`
	Errors             []FieldError `json:"errors"`
}

// SiteInput creates or updates a catalog site.
type SiteInput struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
}
