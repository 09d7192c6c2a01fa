//go:build cgo

package listings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Paladinnu/paladinspalace/internal/config"
	"github.com/Paladinnu/paladinspalace/internal/core"
	"github.com/Paladinnu/paladinspalace/internal/core/store"
)

func openTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() { _ = st.Close() })

	return NewService(st, zap.NewNop()), st
}

func TestSearchTwoPageWalk(t *testing.T) {
	svc, st := openTestService(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	masini := core.CategoryVehicles
	for i := 0; i < 25; i++ {
		price := int64((i + 1) * 1000)
		l := core.Listing{
			ID:             fmt.Sprintf("v-%02d", i),
			SellerID:       "dealer-1",
			Title:          fmt.Sprintf("Sultan RS %02d", i),
			Price:          &price,
			Category:       &masini,
			AttributesJSON: `{"brand":"Sultan","vtype":"sport"}`,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, st.CreateListing(ctx, &l))
	}

	filter := core.ListingFilter{
		Category: &masini,
		Brand:    "Sultan",
		Sort:     core.SortCheapest,
	}

	first, err := svc.Search(ctx, filter)
	require.NoError(t, err)
	require.Len(t, first.Items, core.DefaultListingLimit)
	require.NotNil(t, first.NextCursor)
	for i, l := range first.Items {
		require.Equal(t, int64((i+1)*1000), *l.Price)
	}

	filter.Cursor = first.NextCursor
	second, err := svc.Search(ctx, filter)
	require.NoError(t, err)
	require.Len(t, second.Items, 5)
	require.Nil(t, second.NextCursor)
	for i, l := range second.Items {
		require.Equal(t, int64((21+i)*1000), *l.Price)
	}

	seen := map[string]struct{}{}
	for _, l := range append(first.Items, second.Items...) {
		_, dup := seen[l.ID]
		require.False(t, dup, "duplicate %s across pages", l.ID)
		seen[l.ID] = struct{}{}
	}
	require.Len(t, seen, 25)
}

func TestCreateThenSearchFindsListing(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	arme := core.CategoryWeapons
	created, err := svc.Create(ctx, CreateInput{
		SellerID:   "u-1",
		Title:      "Cuțit de vânătoare",
		Category:   &arme,
		Attributes: map[string]any{"tip": "knife", "stare": "noua"},
	})
	require.NoError(t, err)

	page, err := svc.Search(ctx, core.ListingFilter{
		Category:    &arme,
		WeaponGroup: "arme_albe",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, created.ID, page.Items[0].ID)

	trail, err := svc.AuditTrail(ctx, core.AuditFilter{Action: "listing.create"})
	require.NoError(t, err)
	require.Len(t, trail.Items, 1)
	require.Equal(t, created.ID, trail.Items[0].EntityID)
}
