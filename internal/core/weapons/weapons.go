// Package weapons holds the weapon group taxonomy shared by listing filters.
//
// Every weapon listing carries a canonical slug in its attributes ("tip").
// Older listings used label or synonym spellings, so filters expand each slug
// to its full alias set before matching.
package weapons

import (
	"sort"

	"github.com/Paladinnu/paladinspalace/internal/core/search"
)

// Group identifies a weapon super-category.
type Group string

const (
	GroupBlades   Group = "arme_albe"
	GroupPistols  Group = "pistoale"
	GroupSmallArm Group = "arme_mici"
	GroupHeavyArm Group = "arme_mari"
)

// Option is a selectable weapon within a group.
type Option struct {
	Label string
	Slug  string
}

// groupOptions lists the canonical weapons per group. Slugs match the preset
// filenames used by the image pipeline.
var groupOptions = map[Group][]Option{
	GroupBlades: {
		{Label: "Knife", Slug: "knife"},
		{Label: "Dagger", Slug: "dagger"},
		{Label: "Switch Blade", Slug: "switch_blade"},
		{Label: "Machete", Slug: "machete"},
		{Label: "Battle Axe", Slug: "battle_axe"},
	},
	GroupPistols: {
		{Label: "Navy Revolver", Slug: "navy"},
		{Label: "Double Action", Slug: "double_action"},
		{Label: "Pistol .50", Slug: "pistol_50"},
		{Label: "Vintage Pistol", Slug: "vintage_pistol"},
		{Label: "Ceramic Pistol", Slug: "ceramic_pistol"},
		{Label: "Pistol MK2", Slug: "pistol_mk2"},
		{Label: "Pistol", Slug: "pistol"},
	},
	GroupSmallArm: {
		{Label: "Machine Pistol", Slug: "machine_pistol"},
		{Label: "Micro SMG", Slug: "micro_smg"},
	},
	GroupHeavyArm: {
		{Label: "Assault Rifle MK2", Slug: "assault_rifle_mk2"},
		{Label: "Assault Rifle", Slug: "assault_rifle"},
		{Label: "Machine Gun", Slug: "mg"},
		{Label: "Sawnoff Shotgun", Slug: "sawnoff_shotgun"},
		{Label: "Gusenberg", Slug: "gusenberg"},
		{Label: "Compact Rifle", Slug: "compact_rifle"},
	},
}

// synonyms maps canonical slugs to legacy and alternate spellings seen in
// stored attributes. They widen filter matching only, never the UI options.
var synonyms = map[string][]string{
	"knife":        {"cutit", "cuțit", "cutite", "cuțite", "briceag", "knife"},
	"dagger":       {"pumnal", "dagger"},
	"switch_blade": {"switch blade", "briceag automat", "briceag-automat"},
	"machete":      {"maceta", "machete"},
	"battle_axe":   {"battle axe", "topor", "topor de lupta", "topor de luptă"},

	"pistol":         {"pistolul", "pistol"},
	"navy":           {"navy revolver", "navy-revolver", "navy"},
	"double_action":  {"double action", "double-action"},
	"pistol_mk2":     {"pistol mk2", "pistol mk ii", "pistol mk 2"},
	"pistol_50":      {"pistol .50", "pistol 50", "pistol .50 cal"},
	"vintage_pistol": {"vintage pistol"},
	"ceramic_pistol": {"ceramic pistol"},

	"micro_smg":      {"micro smg", "micro-smg"},
	"machine_pistol": {"machine pistol", "uzi", "tec9", "tec-9"},

	"compact_rifle":     {"compact rifle", "compact-rifle"},
	"gusenberg":         {"gusenberg sweeper", "gusenberg-sweeper", "gusenberg"},
	"sawnoff_shotgun":   {"sawnoff shotgun", "sawn-off shotgun", "sawn off shotgun"},
	"mg":                {"machine gun", "mg"},
	"assault_rifle":     {"assault rifle", "ak", "ak47", "ak-47"},
	"assault_rifle_mk2": {"assault rifle mk2", "assault rifle mk ii", "assault rifle mk 2"},
}

// ValidGroup reports whether g names a known weapon group.
func ValidGroup(g string) bool {
	_, ok := groupOptions[Group(g)]
	return ok
}

// GroupSlugs returns the canonical slugs belonging to a group, nil for an
// unknown group.
func GroupSlugs(g Group) []string {
	opts, ok := groupOptions[g]
	if !ok {
		return nil
	}
	slugs := make([]string, 0, len(opts))
	for _, o := range opts {
		slugs = append(slugs, o.Slug)
	}
	return slugs
}

// Aliases returns every textual variant for a slug: the slug itself, its
// display label, and all synonyms. An unknown slug yields just itself.
func Aliases(slug string) []string {
	seen := map[string]struct{}{slug: {}}
	out := []string{slug}

	for _, opts := range groupOptions {
		for _, o := range opts {
			if o.Slug != slug {
				continue
			}
			if _, dup := seen[o.Label]; !dup {
				seen[o.Label] = struct{}{}
				out = append(out, o.Label)
			}
		}
	}
	for _, s := range synonyms[slug] {
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// GroupAliases returns the flattened alias list for an entire group, used by
// the coarse query predicate's OR expansion.
func GroupAliases(g Group) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, slug := range GroupSlugs(g) {
		for _, a := range Aliases(slug) {
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// AllowedSet returns the normalized alias set for a group. Membership in this
// set is the source of truth for strict group filtering; the coarse substring
// predicate is only a pre-filter.
func AllowedSet(g Group) map[string]struct{} {
	set := make(map[string]struct{})
	for _, a := range GroupAliases(g) {
		if n := search.Normalize(a); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Groups lists the known groups in a stable order.
func Groups() []Group {
	out := make([]Group, 0, len(groupOptions))
	for g := range groupOptions {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
