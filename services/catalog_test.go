package services

import (
	"reflect"
	"testing"
)

func TestCatalog_Lookup(t *testing.T) {
	c := NewCatalog(DefaultMaterials()...)

	tests := []struct {
		name   string
		lookup string
		want   string
		found  bool
	}{
		{"exact", "Galvaniz", "Galvaniz", true},
		{"case insensitive", "dkp", "DKP", true},
		{"turkish capital dotted I", "GALVANİZ", "Galvaniz", true},
		{"turkish upper ascii I", "GALVANIZ", "Galvaniz", true},
		{"surrounding space", "  Hardox 450 ", "Hardox 450", true},
		{"umlaut upper", "ALÜMİNYUM", "Alüminyum", true},
		{"unknown", "Bakır", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := c.Lookup(tt.lookup)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.lookup, ok, tt.found)
			}
			if ok && m.Name != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.lookup, m.Name, tt.want)
			}
		})
	}
}

func TestCatalog_SnapshotIsolation(t *testing.T) {
	mats := []Material{{Name: "DKP", UnitPrice: 1, Currency: CurrencyUSD, Density: 7.85}}
	c := NewCatalog(mats...)
	mats[0].UnitPrice = 99

	m, _ := c.Lookup("DKP")
	if m.UnitPrice != 1 {
		t.Errorf("snapshot changed after caller mutation: %v", m.UnitPrice)
	}

	next := c.With(Material{Name: "dkp", UnitPrice: 2, Currency: CurrencyLocal, Density: 7.85})
	if m, _ := c.Lookup("DKP"); m.UnitPrice != 1 {
		t.Errorf("With() mutated original snapshot: %v", m.UnitPrice)
	}
	if m, _ := next.Lookup("DKP"); m.UnitPrice != 2 {
		t.Errorf("With() did not replace entry: %v", m.UnitPrice)
	}
	if next.Len() != 1 {
		t.Errorf("With() of same name should replace, Len() = %d", next.Len())
	}

	empty := next.Without("DKP")
	if empty.Len() != 0 {
		t.Errorf("Without() Len() = %d, want 0", empty.Len())
	}
	if next.Len() != 1 {
		t.Errorf("Without() mutated original, Len() = %d", next.Len())
	}
}

func TestCatalog_Names(t *testing.T) {
	c := NewCatalog(
		Material{Name: "ST37", Density: 7.85},
		Material{Name: "DKP", Density: 7.85},
		Material{Name: "Galvaniz", Density: 7.85},
	)
	want := []string{"DKP", "Galvaniz", "ST37"}
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestCatalog_ZeroValue(t *testing.T) {
	var c Catalog
	if _, ok := c.Lookup("DKP"); ok {
		t.Error("zero Catalog should find nothing")
	}
	if c.Len() != 0 || len(c.Names()) != 0 {
		t.Error("zero Catalog should be empty")
	}
	if c.With(FallbackMaterial).Len() != 1 {
		t.Error("With() on zero Catalog should work")
	}
}

func TestDefaultMaterials_CoverInferredNames(t *testing.T) {
	c := NewCatalog(DefaultMaterials()...)
	for _, kw := range materialKeywords {
		for _, line := range []string{"", "400", "500"} {
			name := kw.Resolve(line)
			if _, ok := c.Lookup(name); !ok {
				t.Errorf("keyword %q resolves to %q which is not in the default catalog", kw.Keyword, name)
			}
		}
	}
}
