package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Paladinnu/paladinspalace/internal/config"
	"github.com/Paladinnu/paladinspalace/internal/core"
)

func TestBuildDSN(t *testing.T) {
	t.Run("URLGetsAuthToken", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io",
			AuthToken: "token123",
		}

		dsn, err := buildDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=token123", dsn)
	})

	t.Run("URLKeepsExistingToken", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io?authToken=first",
			AuthToken: "second",
		}

		dsn, err := buildDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=first", dsn)
	})

	t.Run("MemoryPath", func(t *testing.T) {
		dsn, err := buildDSN(config.StoreConfig{Path: ":memory:"})
		require.NoError(t, err)
		require.Equal(t, ":memory:", dsn)
	})

	t.Run("PathWithFilePrefix", func(t *testing.T) {
		dsn, err := buildDSN(config.StoreConfig{Path: "file:./palace.db"})
		require.NoError(t, err)
		require.Equal(t, "file:./palace.db", dsn)
	})

	t.Run("PathMissing", func(t *testing.T) {
		_, err := buildDSN(config.StoreConfig{})
		require.Error(t, err)
	})
}

func TestLikeContains(t *testing.T) {
	require.Equal(t, `%pistol\_mk2%`, likeContains("pistol_mk2"))
	require.Equal(t, `%100\%%`, likeContains("100%"))
	require.Equal(t, `%a\\b%`, likeContains(`a\b`))
}

func TestOrderBy(t *testing.T) {
	require.Equal(t, "is_gold DESC, created_at DESC, id ASC",
		orderBy(sortTerms(core.SortNewest)))
	require.Equal(t, "is_gold DESC, created_at ASC, id ASC",
		orderBy(sortTerms(core.SortOldest)))
	require.Equal(t, "is_gold DESC, title ASC, created_at DESC, id ASC",
		orderBy(sortTerms(core.SortAlphabetical)))
	require.Equal(t,
		"is_gold DESC, "+priceNullExpr+" ASC, price ASC, created_at DESC, id ASC",
		orderBy(sortTerms(core.SortCheapest)))
	require.Equal(t,
		"is_gold DESC, "+priceNullExpr+" ASC, price DESC, created_at DESC, id ASC",
		orderBy(sortTerms(core.SortPriciest)))
}

func TestKeysetPredicate(t *testing.T) {
	t.Run("NewestIncludesCursorRow", func(t *testing.T) {
		cur := &core.Listing{ID: "abc"}
		cond, args := keysetPredicate(sortTerms(core.SortNewest), cur)

		require.Contains(t, cond, "is_gold < ?")
		require.Contains(t, cond, "created_at < ?")
		require.Contains(t, cond, "id > ?")
		require.Contains(t, cond, "OR id = ?")
		require.Equal(t, "abc", args[len(args)-1])
	})

	t.Run("NullPriceCursorSkipsStrictPriceTerm", func(t *testing.T) {
		cur := &core.Listing{ID: "abc"}
		cond, _ := keysetPredicate(sortTerms(core.SortCheapest), cur)

		require.Contains(t, cond, "price IS NULL")
		require.NotContains(t, cond, "price > ?")
	})

	t.Run("PricedCursorComparesPrice", func(t *testing.T) {
		price := int64(500)
		cur := &core.Listing{ID: "abc", Price: &price}
		cond, args := keysetPredicate(sortTerms(core.SortCheapest), cur)

		require.Contains(t, cond, "price > ?")
		require.Contains(t, args, int64(500))
	})
}

func TestCoarsePredicateGatesSubFilters(t *testing.T) {
	veh := core.CategoryVehicles

	t.Run("BrandAppliesForVehicles", func(t *testing.T) {
		b := &whereBuilder{}
		coarsePredicate(b, core.ListingFilter{Category: &veh, Brand: "Sultan"})
		require.Contains(t, b.clause(), "attributes_json LIKE ?")
	})

	t.Run("WeaponFilterIgnoredForVehicles", func(t *testing.T) {
		b := &whereBuilder{}
		coarsePredicate(b, core.ListingFilter{Category: &veh, WeaponGroup: "arme_albe"})
		require.Equal(t, "category = ?", b.clause())
	})

	t.Run("PriceBoundsExcludeNullPrice", func(t *testing.T) {
		min := int64(10)
		b := &whereBuilder{}
		coarsePredicate(b, core.ListingFilter{PriceMin: &min})
		require.Contains(t, b.clause(), "price IS NOT NULL")
	})
}
