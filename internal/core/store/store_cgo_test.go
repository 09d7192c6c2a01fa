//go:build cgo

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Paladinnu/paladinspalace/internal/config"
	"github.com/Paladinnu/paladinspalace/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptrInt64(v int64) *int64 { return &v }

func ptrCat(c core.Category) *core.Category { return &c }

func insertListing(t *testing.T, s *Store, l core.Listing) core.Listing {
	t.Helper()
	if l.SellerID == "" {
		l.SellerID = "seller-1"
	}
	require.NoError(t, s.CreateListing(context.Background(), &l))
	return l
}

func TestListingRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := core.Listing{
		ID:             "l-1",
		SellerID:       "u-1",
		Title:          "Cămașă de gală",
		Description:    "Mărimea L",
		Price:          ptrInt64(250),
		Category:       ptrCat(core.CategoryItems),
		AttributesJSON: `{"size":"L"}`,
		SearchIndex:    "camasa de gala marimea l",
		IsGold:         true,
	}
	require.NoError(t, s.CreateListing(ctx, &in))

	got, err := s.GetListing(ctx, "l-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, in.Title, got.Title)
	require.Equal(t, int64(250), *got.Price)
	require.Equal(t, core.CategoryItems, *got.Category)
	require.True(t, got.IsGold)
	require.False(t, got.CreatedAt.IsZero())

	missing, err := s.GetListing(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDeleteListing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	insertListing(t, s, core.Listing{ID: "l-1", Title: "x"})

	deleted, err := s.DeleteListing(ctx, "l-1")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = s.DeleteListing(ctx, "l-1")
	require.NoError(t, err)
	require.False(t, deleted)
}

// seedSequence inserts n listings with strictly increasing creation times so
// time-based orders are unambiguous.
func seedSequence(t *testing.T, s *Store, n int, mut func(i int, l *core.Listing)) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		l := core.Listing{
			ID:        fmt.Sprintf("l-%02d", i),
			Title:     fmt.Sprintf("listing %02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if mut != nil {
			mut(i, &l)
		}
		insertListing(t, s, l)
	}
}

// walkPages pages through the full result set the way the service does:
// fetch limit+1, emit limit, continue from the extra row.
func walkPages(t *testing.T, s *Store, f core.ListingFilter) []string {
	t.Helper()
	var ids []string
	limit := f.ClampedLimit()
	for page := 0; ; page++ {
		require.Less(t, page, 50, "runaway pagination")
		rows, err := s.SearchListings(context.Background(), f)
		require.NoError(t, err)
		if len(rows) <= limit {
			for _, r := range rows {
				ids = append(ids, r.ID)
			}
			return ids
		}
		for _, r := range rows[:limit] {
			ids = append(ids, r.ID)
		}
		next := rows[limit].ID
		f.Cursor = &next
	}
}

func TestSearchListingsPaginationNoGaps(t *testing.T) {
	s := openTestStore(t)

	seedSequence(t, s, 7, func(i int, l *core.Listing) {
		if i%3 == 0 {
			l.IsGold = true
		}
		if i%2 == 0 {
			l.Price = ptrInt64(int64(100 + i))
		}
	})

	for _, sort := range []core.Sort{
		core.SortNewest, core.SortOldest, core.SortAlphabetical,
		core.SortCheapest, core.SortPriciest,
	} {
		t.Run(string(sort), func(t *testing.T) {
			full := walkPages(t, s, core.ListingFilter{Limit: core.MaxListingLimit, Sort: sort})
			paged := walkPages(t, s, core.ListingFilter{Limit: 2, Sort: sort})
			require.Equal(t, full, paged)
			require.Len(t, paged, 7)
		})
	}
}

func TestSearchListingsGoldFirst(t *testing.T) {
	s := openTestStore(t)
	seedSequence(t, s, 4, func(i int, l *core.Listing) {
		l.IsGold = i == 1
	})

	rows, err := s.SearchListings(context.Background(), core.ListingFilter{Sort: core.SortNewest})
	require.NoError(t, err)
	require.Equal(t, "l-01", rows[0].ID)
}

func TestSearchListingsNullPriceLast(t *testing.T) {
	s := openTestStore(t)
	seedSequence(t, s, 5, func(i int, l *core.Listing) {
		if i < 3 {
			l.Price = ptrInt64(int64(300 - 100*i))
		}
	})

	for _, sort := range []core.Sort{core.SortCheapest, core.SortPriciest} {
		t.Run(string(sort), func(t *testing.T) {
			rows, err := s.SearchListings(context.Background(), core.ListingFilter{Sort: sort})
			require.NoError(t, err)
			require.Len(t, rows, 5)
			require.Nil(t, rows[3].Price)
			require.Nil(t, rows[4].Price)
		})
	}

	rows, err := s.SearchListings(context.Background(), core.ListingFilter{Sort: core.SortCheapest})
	require.NoError(t, err)
	require.Equal(t, int64(100), *rows[0].Price)
	require.Equal(t, int64(300), *rows[2].Price)
}

func TestSearchListingsPriceBoundsExcludeUnpriced(t *testing.T) {
	s := openTestStore(t)
	seedSequence(t, s, 3, func(i int, l *core.Listing) {
		if i == 0 {
			l.Price = ptrInt64(50)
		}
		if i == 1 {
			l.Price = ptrInt64(500)
		}
	})

	rows, err := s.SearchListings(context.Background(), core.ListingFilter{
		PriceMin: ptrInt64(10), PriceMax: ptrInt64(100),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "l-00", rows[0].ID)
}

func TestSearchListingsTextQuery(t *testing.T) {
	s := openTestStore(t)
	insertListing(t, s, core.Listing{ID: "a", Title: "x", SearchIndex: "camasa marimea l"})
	insertListing(t, s, core.Listing{ID: "b", Title: "y", SearchIndex: "pantaloni"})

	rows, err := s.SearchListings(context.Background(), core.ListingFilter{Query: "Cămașă!"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "a", rows[0].ID)
}

func TestSearchListingsWeaponAliases(t *testing.T) {
	s := openTestStore(t)
	arme := ptrCat(core.CategoryWeapons)

	insertListing(t, s, core.Listing{
		ID: "slug", Title: "x", Category: arme,
		AttributesJSON: `{"tip":"assault_rifle"}`,
	})
	insertListing(t, s, core.Listing{
		ID: "legacy", Title: "AK-47 de vânzare", Category: arme,
		AttributesJSON: `{}`, SearchIndex: "ak 47 de vanzare",
	})
	insertListing(t, s, core.Listing{
		ID: "knife", Title: "x", Category: arme,
		AttributesJSON: `{"tip":"cutit"}`,
	})

	rows, err := s.SearchListings(context.Background(), core.ListingFilter{
		Category: arme, WeaponItem: "assault_rifle",
	})
	require.NoError(t, err)
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	require.ElementsMatch(t, []string{"slug", "legacy"}, ids)

	rows, err = s.SearchListings(context.Background(), core.ListingFilter{
		Category: arme, WeaponGroup: "arme_albe",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "knife", rows[0].ID)
}

func TestSearchListingsDeletedCursorFallsBackToFirstPage(t *testing.T) {
	s := openTestStore(t)
	seedSequence(t, s, 3, nil)

	gone := "no-such-id"
	rows, err := s.SearchListings(context.Background(), core.ListingFilter{
		Cursor: &gone, Sort: core.SortOldest,
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "l-00", rows[0].ID)
}

func TestAuditEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		e := core.AuditEvent{
			ID:         fmt.Sprintf("e-%02d", i),
			UserID:     "u-1",
			Action:     "listing.create",
			EntityType: "listing",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		if i == 4 {
			e.Action = "login"
		}
		require.NoError(t, s.InsertAuditEvent(ctx, &e))
	}

	t.Run("NewestFirst", func(t *testing.T) {
		events, err := s.QueryAuditEvents(ctx, core.AuditFilter{})
		require.NoError(t, err)
		require.Len(t, events, 5)
		require.Equal(t, "e-04", events[0].ID)
		require.Equal(t, "e-00", events[4].ID)
	})

	t.Run("ActionFilter", func(t *testing.T) {
		events, err := s.QueryAuditEvents(ctx, core.AuditFilter{Action: "login"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, "e-04", events[0].ID)
	})

	t.Run("CursorStartsAtNamedEvent", func(t *testing.T) {
		cursor := "e-02"
		events, err := s.QueryAuditEvents(ctx, core.AuditFilter{Cursor: &cursor})
		require.NoError(t, err)
		require.Equal(t, "e-02", events[0].ID)
		require.Equal(t, "e-00", events[len(events)-1].ID)
	})
}
