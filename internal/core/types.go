// Package core defines the marketplace domain types shared across the
// storage, search, and HTTP layers.
package core

import "time"

// Category identifies a listing category. Values are the slugs stored in the
// database and used in query parameters.
type Category string

const (
	CategoryWeapons  Category = "arme"
	CategoryDrugs    Category = "droguri"
	CategoryVehicles Category = "masini"
	CategoryExchange Category = "bani"
	CategoryItems    Category = "iteme"
	CategoryServices Category = "servicii"
)

// ValidCategory reports whether c names a known listing category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryWeapons, CategoryDrugs, CategoryVehicles, CategoryExchange, CategoryItems, CategoryServices:
		return true
	}
	return false
}

// Sort selects the listing ordering. Every sort secondarily favors gold
// (featured) listings, then falls back to recency and identity so duplicate
// values order deterministically.
type Sort string

const (
	SortNewest       Sort = "new"
	SortOldest       Sort = "old"
	SortCheapest     Sort = "cheap"
	SortPriciest     Sort = "expensive"
	SortAlphabetical Sort = "alpha"
)

// ParseSort maps a raw query value to a Sort, defaulting to newest for
// unknown or empty input. Bad values are coerced, not rejected, to keep
// search forgiving.
func ParseSort(raw string) Sort {
	switch Sort(raw) {
	case SortOldest, SortCheapest, SortPriciest, SortAlphabetical:
		return Sort(raw)
	default:
		return SortNewest
	}
}

// Listing is a classified ad as stored. The core reads listings; writes go
// through the store, which keeps SearchIndex in sync with title+description.
type Listing struct {
	ID             string      `json:"id"`
	SellerID       string      `json:"sellerId"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Price          *int64      `json:"price"`
	Category       *Category   `json:"category"`
	AttributesJSON string      `json:"-"`
	Attributes     *Attributes `json:"attributes,omitempty"`
	SearchIndex    string      `json:"-"`
	IsGold         bool        `json:"isGold"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// ListingPage is one page of listing search results. NextCursor is nil when
// the result set is exhausted; otherwise it identifies the first record of
// the next page under the active sort.
type ListingPage struct {
	Items      []Listing `json:"items"`
	NextCursor *string   `json:"nextCursor"`
}

// AuditEvent records a moderator-visible action in the audit trail.
type AuditEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuditPage is one page of audit events.
type AuditPage struct {
	Items      []AuditEvent `json:"items"`
	NextCursor *string      `json:"nextCursor"`
}
