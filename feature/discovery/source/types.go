package source

// Site is a discovery-side grouping of assets, usually a physical network.
type Site struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AssetCount     int    `json:"asset_count"`
	OrganizationID string `json:"organization_id"`
}

// AssetUser is a user account observed on an asset.
type AssetUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// AssetSoftware is an installed-software entry reported with an asset.
type AssetSoftware struct {
	Name string `json:"name"`
}

// OperatingSystem describes the asset's reported OS.
type OperatingSystem struct {
	Caption string `json:"caption"`
}

// AssetCustom carries the customer-maintained metadata of an asset. Assets
// without it cannot be mapped and are skipped.
type AssetCustom struct {
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	State        string `json:"state_name"`
	PurchaseDate string `json:"purchase_date"`
	WarrantyDate string `json:"warranty_date"`
	SerialNumber string `json:"serial_number"`
	SKU          string `json:"sku"`
}

// RawAsset is one discovered asset exactly as the source reports it. The
// engine never mutates it, with one exception: AllUsers is populated once by
// ExtractUsers as part of vendor-specific user normalization.
type RawAsset struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Names    []string `json:"names"`
	Type     string   `json:"type"`
	SiteName string   `json:"site_name"`
	// Hardware is the combined "<vendor> <product>" descriptor, used as a
	// fallback when the structured vendor/product fields are absent.
	Hardware        string           `json:"hw"`
	LastUser        string           `json:"last_user"`
	IPAddress       string           `json:"ip_address"`
	FirstSeen       string           `json:"first_seen"`
	LastSeen        string           `json:"last_seen"`
	Custom          *AssetCustom     `json:"custom"`
	Users           []AssetUser      `json:"users"`
	Softwares       []AssetSoftware  `json:"softwares"`
	OperatingSystem *OperatingSystem `json:"operating_system"`

	// AllUsers holds the normalized, deduplicated user names for this asset.
	// Populated once per page before mapping; not part of the wire format.
	AllUsers []string `json:"-"`
}

// SoftwareRecord is one row of the source's software inventory export.
type SoftwareRecord struct {
	SoftwareID string `json:"software_id"`
	AssetID    string `json:"software_asset_id"`
	Vendor     string `json:"software_vendor"`
	Product    string `json:"software_product"`
	Version    string `json:"software_version"`
}

// Page is the dialect-agnostic page shape every listing endpoint is adapted
// into. The first page carries no cursor; the loop ends when Next is absent
// or the running count reaches Total.
type Page struct {
	Items []RawAsset `json:"items"`
	Total int        `json:"total"`
	Next  string     `json:"-"`
}
