package core

import (
	"encoding/json"
	"errors"
	"strings"
)

// Attributes is the decoded, category-keyed view of a listing's attribute
// bag. Exactly one variant is set for a categorized listing; Generic holds
// leftover keys for uncategorized ads. The raw JSON stays on the listing for
// coarse substring matching; this union is what the strict post-fetch filter
// operates on.
type Attributes struct {
	Weapon   *WeaponAttrs   `json:"weapon,omitempty"`
	Drug     *DrugAttrs     `json:"drug,omitempty"`
	Vehicle  *VehicleAttrs  `json:"vehicle,omitempty"`
	Exchange *ExchangeAttrs `json:"exchange,omitempty"`
	Generic  map[string]any `json:"generic,omitempty"`
}

// WeaponAttrs describes a weapons listing. Tip is the canonical item slug
// (or a legacy alias on older listings).
type WeaponAttrs struct {
	Tip   string `json:"tip"`
	Stare string `json:"stare,omitempty"`
}

// DrugAttrs describes a drugs listing. Cantitate is nil when the seller left
// the quantity unspecified.
type DrugAttrs struct {
	Tip       string   `json:"tip"`
	Cantitate *float64 `json:"cantitate,omitempty"`
	Unitate   string   `json:"unitate,omitempty"`
}

// VehicleAttrs describes a vehicle listing.
type VehicleAttrs struct {
	Brand string `json:"brand,omitempty"`
	Vtype string `json:"vtype,omitempty"`
}

// ExchangeAttrs describes a currency-exchange offer. Actiune is "cumpara" or
// "vinde"; Procent is the offered percentage; Suma the amount traded.
type ExchangeAttrs struct {
	Actiune string   `json:"actiune,omitempty"`
	Procent *int64   `json:"procent,omitempty"`
	Suma    *float64 `json:"suma,omitempty"`
}

// DecodeAttributes parses a listing's raw attribute JSON into the typed union
// for its category. Malformed JSON yields an error; an empty bag yields an
// empty union. Records in one category never populate another category's
// variant.
func DecodeAttributes(category *Category, raw string) (*Attributes, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" || raw == "null" {
		return &Attributes{}, nil
	}

	var bag map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &bag); err != nil {
		return nil, errors.New("attributes are not a JSON object")
	}

	out := &Attributes{}
	if category == nil {
		out.Generic = decodeGeneric(bag)
		return out, nil
	}

	switch *category {
	case CategoryWeapons:
		out.Weapon = &WeaponAttrs{
			Tip:   decodeString(bag, "tip"),
			Stare: decodeString(bag, "stare"),
		}
	case CategoryDrugs:
		out.Drug = &DrugAttrs{
			Tip:       decodeString(bag, "tip"),
			Cantitate: decodeNumber(bag, "cantitate"),
			Unitate:   decodeString(bag, "unitate"),
		}
	case CategoryVehicles:
		out.Vehicle = &VehicleAttrs{
			Brand: decodeString(bag, "brand"),
			Vtype: decodeString(bag, "vtype"),
		}
	case CategoryExchange:
		out.Exchange = &ExchangeAttrs{
			Actiune: decodeString(bag, "actiune"),
			Procent: decodeInt(bag, "procent"),
			Suma:    decodeNumber(bag, "suma"),
		}
	default:
		out.Generic = decodeGeneric(bag)
	}
	return out, nil
}

func decodeString(bag map[string]json.RawMessage, key string) string {
	raw, ok := bag[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeNumber(bag map[string]json.RawMessage, key string) *float64 {
	raw, ok := bag[key]
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

func decodeInt(bag map[string]json.RawMessage, key string) *int64 {
	raw, ok := bag[key]
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	n := int64(f)
	return &n
}

func decodeGeneric(bag map[string]json.RawMessage) map[string]any {
	out := make(map[string]any, len(bag))
	for k, raw := range bag {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out[k] = v
	}
	return out
}
