package listings

import (
	"github.com/Paladinnu/paladinspalace/internal/core"
	"github.com/Paladinnu/paladinspalace/internal/core/search"
	"github.com/Paladinnu/paladinspalace/internal/core/weapons"
)

// applyStrictFilters drops rows the coarse SQL predicate admitted but the
// typed attribute constraints reject. It runs over the fetched rows only,
// never refetches, and keeps store order. Rows whose attribute bag failed to
// decode cannot satisfy an attribute constraint and are dropped when one is
// active.
func applyStrictFilters(f core.ListingFilter, rows []core.Listing) []core.Listing {
	match := strictMatcher(f)
	if match == nil {
		return rows
	}

	out := rows[:0]
	for _, l := range rows {
		if match(&l) {
			out = append(out, l)
		}
	}
	return out
}

// strictMatcher returns the active constraint for the filter's category, or
// nil when no post-fetch check applies. A specific weapon item skips the
// group check; the item's alias expansion already narrowed the SQL predicate.
func strictMatcher(f core.ListingFilter) func(*core.Listing) bool {
	if f.Category == nil {
		return nil
	}

	switch *f.Category {
	case core.CategoryWeapons:
		if f.WeaponItem != "" || !weapons.ValidGroup(f.WeaponGroup) {
			return nil
		}
		allowed := weapons.AllowedSet(weapons.Group(f.WeaponGroup))
		return func(l *core.Listing) bool {
			if l.Attributes == nil || l.Attributes.Weapon == nil {
				return false
			}
			tip := search.Normalize(l.Attributes.Weapon.Tip)
			if tip == "" {
				return false
			}
			_, ok := allowed[tip]
			return ok
		}

	case core.CategoryDrugs:
		if f.DrugQtyMin == nil && f.DrugQtyMax == nil {
			return nil
		}
		return func(l *core.Listing) bool {
			if l.Attributes == nil || l.Attributes.Drug == nil {
				return false
			}
			return inRange(l.Attributes.Drug.Cantitate, f.DrugQtyMin, f.DrugQtyMax)
		}

	case core.CategoryExchange:
		if f.ExchangePercent == nil && f.ExchangeSumMin == nil && f.ExchangeSumMax == nil {
			return nil
		}
		return func(l *core.Listing) bool {
			if l.Attributes == nil || l.Attributes.Exchange == nil {
				return false
			}
			ex := l.Attributes.Exchange
			if f.ExchangePercent != nil {
				if ex.Procent == nil || *ex.Procent != *f.ExchangePercent {
					return false
				}
			}
			return inRange(ex.Suma, f.ExchangeSumMin, f.ExchangeSumMax)
		}
	}
	return nil
}

// inRange checks an optional value against optional bounds. An absent value
// passes when no bound is set and fails any set bound.
func inRange(v, min, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}
