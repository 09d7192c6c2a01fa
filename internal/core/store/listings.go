package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Paladinnu/paladinspalace/internal/core"
	"github.com/Paladinnu/paladinspalace/internal/core/search"
	"github.com/Paladinnu/paladinspalace/internal/core/weapons"
)

const listingColumns = `id, seller_id, title, description, price, category,
	attributes_json, search_index, is_gold, created_at, updated_at`

// CreateListing inserts a listing. Timestamps default to now when unset.
func (s *Store) CreateListing(ctx context.Context, l *core.Listing) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = l.CreatedAt
	}
	if l.AttributesJSON == "" {
		l.AttributesJSON = "{}"
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO listings (id, seller_id, title, description, price, category,
			attributes_json, search_index, is_gold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.SellerID, l.Title, l.Description,
		nullableInt(l.Price), nullableCategory(l.Category),
		l.AttributesJSON, l.SearchIndex, boolToInt(l.IsGold),
		l.CreatedAt.Unix(), l.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetListing fetches one listing by ID, returning (nil, nil) when missing.
func (s *Store) GetListing(ctx context.Context, id string) (*core.Listing, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// DeleteListing removes a listing, reporting whether a row existed.
func (s *Store) DeleteListing(ctx context.Context, id string) (bool, error) {
	if s == nil || s.DB == nil {
		return false, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete listing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete listing: %w", err)
	}
	return n > 0, nil
}

// SearchListings runs the coarse SQL query for a filter and returns up to
// limit+1 rows in sort order. The extra row signals another page; callers
// apply the strict attribute filter and trim before paging.
//
// A cursor names the listing the page starts at. The row is resolved to its
// full sort tuple and the predicate admits it and everything after it, so a
// page boundary never drops the record it points to. A deleted cursor row
// degrades to the first page.
func (s *Store) SearchListings(ctx context.Context, f core.ListingFilter) ([]core.Listing, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	b := &whereBuilder{}
	coarsePredicate(b, f)

	if f.Cursor != nil && *f.Cursor != "" {
		cur, err := s.GetListing(ctx, *f.Cursor)
		if err != nil {
			return nil, err
		}
		if cur != nil {
			cond, args := keysetPredicate(sortTerms(f.Sort), cur)
			b.and(cond, args...)
		}
	}

	query := `SELECT ` + listingColumns + ` FROM listings`
	if clause := b.clause(); clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY " + orderBy(sortTerms(f.Sort)) + " LIMIT ?"
	args := append(b.args, f.ClampedLimit()+1)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	var out []core.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("search listings: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return out, nil
}

// coarsePredicate adds the deliberately permissive SQL conditions. Substring
// matches over attributes_json may admit rows the strict filter later drops;
// they must never drop a row the strict filter would keep.
func coarsePredicate(b *whereBuilder, f core.ListingFilter) {
	if f.SellerID != "" {
		b.and("seller_id = ?", f.SellerID)
	}
	if f.Category != nil {
		b.and("category = ?", string(*f.Category))
	}
	if f.PriceMin != nil {
		b.and("(price IS NOT NULL AND price >= ?)", *f.PriceMin)
	}
	if f.PriceMax != nil {
		b.and("(price IS NOT NULL AND price <= ?)", *f.PriceMax)
	}
	if norm := search.Normalize(f.Query); norm != "" {
		b.and(`search_index LIKE ? ESCAPE '\'`, likeContains(norm))
	}

	if f.Category == nil {
		return
	}
	switch *f.Category {
	case core.CategoryWeapons:
		weaponPredicate(b, f)
	case core.CategoryDrugs:
		if len(f.DrugTip) > 1 {
			b.or(
				`attributes_json LIKE ? ESCAPE '\'`, likeContains(kvFragment("tip", f.DrugTip)),
				`attributes_json LIKE ? ESCAPE '\'`, likeContains(f.DrugTip),
			)
		}
		if f.DrugUnit != "" {
			b.and(`attributes_json LIKE ? ESCAPE '\'`, likeContains(kvFragment("unitate", f.DrugUnit)))
		}
	case core.CategoryVehicles:
		if f.Brand != "" {
			b.or(
				`attributes_json LIKE ? ESCAPE '\'`, likeContains(kvFragment("brand", f.Brand)),
				`search_index LIKE ? ESCAPE '\'`, likeContains(search.Normalize(f.Brand)),
			)
		}
		if f.Vtype != "" {
			b.or(
				`attributes_json LIKE ? ESCAPE '\'`, likeContains(kvFragment("vtype", f.Vtype)),
				`search_index LIKE ? ESCAPE '\'`, likeContains(search.Normalize(f.Vtype)),
			)
		}
	case core.CategoryExchange:
		if f.ExchangeAction != "" {
			b.and(`attributes_json LIKE ? ESCAPE '\'`, likeContains(kvFragment("actiune", f.ExchangeAction)))
		}
		if f.ExchangePercent != nil {
			frag := `"procent":` + strconv.FormatInt(*f.ExchangePercent, 10)
			b.and(`attributes_json LIKE ? ESCAPE '\'`, likeContains(frag))
		}
	}
}

// weaponPredicate expands the requested item or group to its alias set. A
// specific item wins over its group; legacy listings matched only by title
// are admitted through the search index.
func weaponPredicate(b *whereBuilder, f core.ListingFilter) {
	if f.WeaponItem != "" {
		var conds []string
		var args []any
		for _, a := range weapons.Aliases(f.WeaponItem) {
			conds = append(conds, `attributes_json LIKE ? ESCAPE '\'`)
			args = append(args, likeContains(kvFragment("tip", a)))
			if norm := search.Normalize(a); norm != "" {
				conds = append(conds, `search_index LIKE ? ESCAPE '\'`)
				args = append(args, likeContains(norm))
			}
		}
		b.andGroup(conds, args)
	} else if weapons.ValidGroup(f.WeaponGroup) {
		var conds []string
		var args []any
		for _, a := range weapons.GroupAliases(weapons.Group(f.WeaponGroup)) {
			conds = append(conds, `attributes_json LIKE ? ESCAPE '\'`)
			args = append(args, likeContains(kvFragment("tip", a)))
		}
		b.andGroup(conds, args)
	}
	if f.WeaponStare != "" {
		b.and(`attributes_json LIKE ? ESCAPE '\'`, likeContains(kvFragment("stare", f.WeaponStare)))
	}
}

// sortTerm is one component of a sort order's tuple. val extracts the
// component from a cursor row; present is false when the row's value is NULL,
// which happens only for the price term.
type sortTerm struct {
	expr string
	desc bool
	val  func(l *core.Listing) (v any, present bool)
}

const priceNullExpr = "CASE WHEN price IS NULL THEN 1 ELSE 0 END"

// sortTerms returns the ordered tuple for a sort. Gold listings lead every
// order; null prices rank last under the price sorts; the trailing id term
// makes every order total.
func sortTerms(s core.Sort) []sortTerm {
	gold := sortTerm{expr: "is_gold", desc: true, val: func(l *core.Listing) (any, bool) {
		return boolToInt(l.IsGold), true
	}}
	created := func(desc bool) sortTerm {
		return sortTerm{expr: "created_at", desc: desc, val: func(l *core.Listing) (any, bool) {
			return l.CreatedAt.Unix(), true
		}}
	}
	id := sortTerm{expr: "id", val: func(l *core.Listing) (any, bool) {
		return l.ID, true
	}}
	priceNull := sortTerm{expr: priceNullExpr, val: func(l *core.Listing) (any, bool) {
		if l.Price == nil {
			return 1, true
		}
		return 0, true
	}}
	price := func(desc bool) sortTerm {
		return sortTerm{expr: "price", desc: desc, val: func(l *core.Listing) (any, bool) {
			if l.Price == nil {
				return nil, false
			}
			return *l.Price, true
		}}
	}

	switch s {
	case core.SortOldest:
		return []sortTerm{gold, created(false), id}
	case core.SortAlphabetical:
		title := sortTerm{expr: "title", val: func(l *core.Listing) (any, bool) {
			return l.Title, true
		}}
		return []sortTerm{gold, title, created(true), id}
	case core.SortCheapest:
		return []sortTerm{gold, priceNull, price(false), created(true), id}
	case core.SortPriciest:
		return []sortTerm{gold, priceNull, price(true), created(true), id}
	default:
		return []sortTerm{gold, created(true), id}
	}
}

func orderBy(terms []sortTerm) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		dir := " ASC"
		if t.desc {
			dir = " DESC"
		}
		parts = append(parts, t.expr+dir)
	}
	return strings.Join(parts, ", ")
}

// keysetPredicate builds the tuple comparison admitting the cursor row and
// every row ordered after it. One disjunct per term holds the earlier terms
// equal and this term strictly past the cursor's value; a NULL cursor price
// contributes IS NULL equality and no strict disjunct, since rows inside the
// null class only order by the later terms. The trailing id disjunct makes
// the cursor row itself the first row of its page.
func keysetPredicate(terms []sortTerm, cur *core.Listing) (string, []any) {
	var disjuncts []string
	var args []any

	for i, t := range terms {
		v, present := t.val(cur)
		if !present {
			continue
		}
		var conj []string
		for _, prev := range terms[:i] {
			pv, ppresent := prev.val(cur)
			if ppresent {
				conj = append(conj, prev.expr+" = ?")
				args = append(args, pv)
			} else {
				conj = append(conj, prev.expr+" IS NULL")
			}
		}
		op := " > ?"
		if t.desc {
			op = " < ?"
		}
		conj = append(conj, t.expr+op)
		args = append(args, v)
		disjuncts = append(disjuncts, "("+strings.Join(conj, " AND ")+")")
	}

	disjuncts = append(disjuncts, "id = ?")
	args = append(args, cur.ID)
	return "(" + strings.Join(disjuncts, " OR ") + ")", args
}

type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) and(cond string, args ...any) {
	b.conds = append(b.conds, cond)
	b.args = append(b.args, args...)
}

// or ANDs a two-way disjunction onto the predicate. Pairs are (cond, arg).
func (b *whereBuilder) or(cond1 string, arg1 any, cond2 string, arg2 any) {
	b.conds = append(b.conds, "("+cond1+" OR "+cond2+")")
	b.args = append(b.args, arg1, arg2)
}

// andGroup ANDs an n-way disjunction onto the predicate.
func (b *whereBuilder) andGroup(conds []string, args []any) {
	if len(conds) == 0 {
		return
	}
	b.conds = append(b.conds, "("+strings.Join(conds, " OR ")+")")
	b.args = append(b.args, args...)
}

func (b *whereBuilder) clause() string {
	return strings.Join(b.conds, " AND ")
}

// likeContains wraps a fragment in a contains pattern, escaping the LIKE
// metacharacters. Slugs carry underscores, which LIKE would otherwise treat
// as wildcards.
func likeContains(fragment string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(fragment) + "%"
}

// kvFragment is the raw JSON substring for a string-valued attribute.
func kvFragment(key, value string) string {
	return `"` + key + `":"` + value + `"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*core.Listing, error) {
	var (
		l         core.Listing
		price     sql.NullInt64
		category  sql.NullString
		isGold    int
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&l.ID, &l.SellerID, &l.Title, &l.Description, &price,
		&category, &l.AttributesJSON, &l.SearchIndex, &isGold, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		l.Price = &price.Int64
	}
	if category.Valid && category.String != "" {
		c := core.Category(category.String)
		l.Category = &c
	}
	l.IsGold = isGold != 0
	l.CreatedAt = time.Unix(createdAt, 0).UTC()
	l.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	// A malformed attribute bag degrades to no decoded attributes; the strict
	// filter treats that as non-matching for attribute constraints.
	if attrs, err := core.DecodeAttributes(l.Category, l.AttributesJSON); err == nil {
		l.Attributes = attrs
	}
	return &l, nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableCategory(c *core.Category) any {
	if c == nil {
		return nil
	}
	return string(*c)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
