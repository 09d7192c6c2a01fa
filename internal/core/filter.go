package core

const (
	// DefaultListingLimit is the page size used when the caller does not ask
	// for one.
	DefaultListingLimit = 20
	// MaxListingLimit caps a listing search page.
	MaxListingLimit = 50
	// DefaultAuditLimit is the default audit log page size.
	DefaultAuditLimit = 50
	// MaxAuditLimit caps an audit log page.
	MaxAuditLimit = 100
)

// ListingFilter is the immutable, request-scoped description of a listing
// search. Category sub-filters only apply when Category matches their domain;
// they are ignored otherwise. Malformed values never reach this struct: the
// boundary coerces them to their zero value.
type ListingFilter struct {
	Limit    int
	Cursor   *string
	Query    string
	Category *Category
	SellerID string
	Sort     Sort

	PriceMin *int64
	PriceMax *int64

	// Vehicles (category "masini").
	Brand string
	Vtype string

	// Weapons (category "arme"). WeaponItem is the specific slug from the
	// second-level selector; WeaponGroup the super-category. When both are
	// present the specific item wins.
	WeaponGroup string
	WeaponItem  string
	WeaponStare string

	// Drugs (category "droguri").
	DrugTip    string
	DrugUnit   string
	DrugQtyMin *float64
	DrugQtyMax *float64

	// Currency exchange (category "bani").
	ExchangeAction  string
	ExchangePercent *int64
	ExchangeSumMin  *float64
	ExchangeSumMax  *float64
}

// ClampedLimit returns the page size clamped to 1..MaxListingLimit, with the
// default applied for an unset limit.
func (f ListingFilter) ClampedLimit() int {
	return clampLimit(f.Limit, DefaultListingLimit, MaxListingLimit)
}

// AuditFilter describes an audit trail query. All filters are optional exact
// matches; results order newest first.
type AuditFilter struct {
	Limit      int
	Cursor     *string
	Action     string
	UserID     string
	EntityType string
}

// ClampedLimit returns the page size clamped to 1..MaxAuditLimit.
func (f AuditFilter) ClampedLimit() int {
	return clampLimit(f.Limit, DefaultAuditLimit, MaxAuditLimit)
}

func clampLimit(limit, def, max int) int {
	if limit == 0 {
		return def
	}
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
