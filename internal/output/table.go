// Package output renders CLI results for human consumption.
package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Paladinnu/paladinspalace/internal/core"
)

// FormatListings renders a page of listings as an ASCII table.
func FormatListings(page core.ListingPage) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Title", "Category", "Price", "Gold", "Created"})

	for _, l := range page.Items {
		t.AppendRow(table.Row{
			shortID(l.ID),
			truncate(l.Title, 40),
			categoryLabel(l.Category),
			priceLabel(l.Price),
			goldLabel(l.IsGold),
			l.CreatedAt.Format(time.DateTime),
		})
	}

	footer := fmt.Sprintf("%d listings", len(page.Items))
	if page.NextCursor != nil {
		footer += ", more available (cursor " + shortID(*page.NextCursor) + ")"
	}
	t.AppendFooter(table.Row{"", footer, "", "", "", ""})

	return t.Render()
}

// FormatAuditEvents renders a page of audit events as an ASCII table.
func FormatAuditEvents(page core.AuditPage) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"When", "User", "Action", "Entity", "Detail"})

	for _, e := range page.Items {
		entity := e.EntityType
		if e.EntityID != "" {
			entity += "/" + shortID(e.EntityID)
		}
		t.AppendRow(table.Row{
			e.CreatedAt.Format(time.DateTime),
			e.UserID,
			e.Action,
			entity,
			truncate(e.Detail, 40),
		})
	}

	return t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func categoryLabel(c *core.Category) string {
	if c == nil {
		return "-"
	}
	return string(*c)
}

func priceLabel(p *int64) string {
	if p == nil {
		return "-"
	}
	return "$" + strconv.FormatInt(*p, 10)
}

func goldLabel(gold bool) string {
	if gold {
		return "★"
	}
	return ""
}
