package services

import (
	"sort"
)

// Currency tags the currency a material's unit price is quoted in.
type Currency string

const (
	CurrencyLocal Currency = "LOCAL"
	CurrencyUSD   Currency = "USD"
)

// CurrencyOptions lists the currencies a material price may be entered in.
var CurrencyOptions = []Currency{CurrencyLocal, CurrencyUSD}

// Material is one catalog entry. UnitPrice is per kg in Currency,
// Density is g/cm³.
type Material struct {
	Name      string   `json:"name"`
	UnitPrice float64  `json:"unit_price"`
	Currency  Currency `json:"currency"`
	Density   float64  `json:"density"`
}

// FallbackMaterial is substituted when a line item names a material the
// catalog does not contain. It is plain carbon steel at a conservative price.
var FallbackMaterial = Material{
	Name:      "DKP",
	UnitPrice: 0.85,
	Currency:  CurrencyUSD,
	Density:   7.85,
}

// DefaultMaterials is the catalog a fresh installation starts with.
func DefaultMaterials() []Material {
	return []Material{
		{Name: "DKP", UnitPrice: 0.85, Currency: CurrencyUSD, Density: 7.85},
		{Name: "ST37", UnitPrice: 0.85, Currency: CurrencyUSD, Density: 7.85},
		{Name: "S235", UnitPrice: 0.88, Currency: CurrencyUSD, Density: 7.85},
		{Name: "Paslanmaz 304", UnitPrice: 3.20, Currency: CurrencyUSD, Density: 7.93},
		{Name: "Galvaniz", UnitPrice: 1.05, Currency: CurrencyUSD, Density: 7.85},
		{Name: "Alüminyum", UnitPrice: 3.50, Currency: CurrencyUSD, Density: 2.70},
		{Name: "Hardox 400", UnitPrice: 2.40, Currency: CurrencyUSD, Density: 7.85},
		{Name: "Hardox 450", UnitPrice: 2.60, Currency: CurrencyUSD, Density: 7.85},
		{Name: "Hardox 500", UnitPrice: 2.90, Currency: CurrencyUSD, Density: 7.85},
	}
}

// Catalog is a read-only snapshot of the material table. Edits produce a new
// Catalog via With/Without; a Catalog value is never mutated after creation.
type Catalog struct {
	byKey map[string]Material
}

// NewCatalog builds a snapshot from materials. Later entries with the same
// (folded) name replace earlier ones.
func NewCatalog(materials ...Material) Catalog {
	byKey := make(map[string]Material, len(materials))
	for _, m := range materials {
		byKey[foldName(m.Name)] = m
	}
	return Catalog{byKey: byKey}
}

// Lookup finds a material by name, ignoring case and surrounding space.
func (c Catalog) Lookup(name string) (Material, bool) {
	m, ok := c.byKey[foldName(name)]
	return m, ok
}

// Len returns the number of materials in the snapshot.
func (c Catalog) Len() int {
	return len(c.byKey)
}

// Materials returns the entries sorted by name.
func (c Catalog) Materials() []Material {
	out := make([]Material, 0, len(c.byKey))
	for _, m := range c.byKey {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the material names sorted alphabetically.
func (c Catalog) Names() []string {
	mats := c.Materials()
	names := make([]string, len(mats))
	for i, m := range mats {
		names[i] = m.Name
	}
	return names
}

// With returns a new snapshot containing m, replacing any entry of the same name.
func (c Catalog) With(m Material) Catalog {
	next := make(map[string]Material, len(c.byKey)+1)
	for k, v := range c.byKey {
		next[k] = v
	}
	next[foldName(m.Name)] = m
	return Catalog{byKey: next}
}

// Without returns a new snapshot with name removed.
func (c Catalog) Without(name string) Catalog {
	key := foldName(name)
	next := make(map[string]Material, len(c.byKey))
	for k, v := range c.byKey {
		if k != key {
			next[k] = v
		}
	}
	return Catalog{byKey: next}
}
