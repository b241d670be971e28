// internal/model/lead.go
package model

// Lead is a normalized property lead. Read-only input to the content
// renderer; only the upload/import pipeline writes these rows.
type Lead struct {
	ID                 string   `db:"id" json:"id"`
	ContactName        *string  `db:"contact_name" json:"contact_name,omitempty"`
	ContactEmail       string   `db:"contact_email" json:"contact_email"`
	PropertyAddress    string   `db:"property_address" json:"property_address"`
	PropertyCity       string   `db:"property_city" json:"property_city"`
	PropertyState      string   `db:"property_state" json:"property_state"`
	PropertyPostalCode string   `db:"property_postal_code" json:"property_postal_code"`
	PropertyType       *string  `db:"property_type" json:"property_type,omitempty"`
	SquareFootage      *string  `db:"square_footage" json:"square_footage,omitempty"`
	Beds               *string  `db:"beds" json:"beds,omitempty"`
	Baths              *string  `db:"baths" json:"baths,omitempty"`
	YearBuilt          *string  `db:"year_built" json:"year_built,omitempty"`
	AssessedTotal      *float64 `db:"assessed_total" json:"assessed_total,omitempty"`
	MarketRegion       *string  `db:"market_region" json:"market_region,omitempty"`
}
