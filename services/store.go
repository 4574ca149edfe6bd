package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase/core"
)

// ErrMaterialNotFound is returned when deleting a material that is not stored.
var ErrMaterialNotFound = errors.New("material not found")

// LoadCatalog reads the materials collection into a Catalog snapshot.
func LoadCatalog(app core.App) (Catalog, error) {
	records, err := app.FindAllRecords("materials")
	if err != nil {
		return Catalog{}, fmt.Errorf("load materials: %w", err)
	}

	mats := make([]Material, 0, len(records))
	for _, r := range records {
		mats = append(mats, materialFromRecord(r))
	}
	return NewCatalog(mats...), nil
}

func materialFromRecord(r *core.Record) Material {
	cur := Currency(r.GetString("currency"))
	if cur != CurrencyUSD {
		cur = CurrencyLocal
	}
	return Material{
		Name:      r.GetString("name"),
		UnitPrice: r.GetFloat("unit_price"),
		Currency:  cur,
		Density:   r.GetFloat("density"),
	}
}

// UpsertMaterial creates or replaces the material with the same name
// (compared the way Catalog.Lookup compares names).
func UpsertMaterial(app core.App, m Material) error {
	m.Name = strings.TrimSpace(m.Name)
	if err := ValidateMaterial(m); err != nil {
		return err
	}

	rec, err := findMaterialRecord(app, m.Name)
	if err != nil {
		return err
	}
	if rec == nil {
		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			return fmt.Errorf("find materials collection: %w", err)
		}
		rec = core.NewRecord(col)
	}

	rec.Set("name", m.Name)
	rec.Set("unit_price", m.UnitPrice)
	rec.Set("currency", string(m.Currency))
	rec.Set("density", m.Density)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save material %q: %w", m.Name, err)
	}
	return nil
}

// DeleteMaterial removes a material by name.
func DeleteMaterial(app core.App, name string) error {
	rec, err := findMaterialRecord(app, name)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %q", ErrMaterialNotFound, name)
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete material %q: %w", name, err)
	}
	return nil
}

// findMaterialRecord returns nil, nil when no material matches.
func findMaterialRecord(app core.App, name string) (*core.Record, error) {
	records, err := app.FindAllRecords("materials")
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	key := foldName(name)
	for _, r := range records {
		if foldName(r.GetString("name")) == key {
			return r, nil
		}
	}
	return nil, nil
}

// LoadRates reads the shop_settings row. A missing row yields DefaultRates.
func LoadRates(app core.App) (RateConfig, error) {
	rec, err := settingsRecord(app)
	if err != nil {
		return RateConfig{}, err
	}
	if rec == nil {
		return DefaultRates(), nil
	}
	return RateConfig{
		FXRate:             rec.GetFloat("fx_rate"),
		LaserRatePerMinute: rec.GetFloat("laser_rate_per_minute"),
		BendRatePerHit:     rec.GetFloat("bend_rate_per_hit"),
		WeldRatePerHour:    rec.GetFloat("weld_rate_per_hour"),
		PaintRatePerM2:     rec.GetFloat("paint_rate_per_m2"),
		ProfitMarginPct:    rec.GetFloat("profit_margin_pct"),
		VATPct:             rec.GetFloat("vat_pct"),
		VATEnabled:         rec.GetBool("vat_enabled"),
	}, nil
}

// SaveRates validates rates and stores them as the current snapshot.
func SaveRates(app core.App, rates RateConfig) error {
	if err := rates.Validate(); err != nil {
		return err
	}

	rec, err := settingsRecord(app)
	if err != nil {
		return err
	}
	if rec == nil {
		col, err := app.FindCollectionByNameOrId("shop_settings")
		if err != nil {
			return fmt.Errorf("find shop_settings collection: %w", err)
		}
		rec = core.NewRecord(col)
	}

	SetRateFields(rec, rates)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save shop_settings: %w", err)
	}
	return nil
}

// SetRateFields copies rates onto a shop_settings (or quotes) record.
func SetRateFields(rec *core.Record, rates RateConfig) {
	rec.Set("fx_rate", rates.FXRate)
	rec.Set("laser_rate_per_minute", rates.LaserRatePerMinute)
	rec.Set("bend_rate_per_hit", rates.BendRatePerHit)
	rec.Set("weld_rate_per_hour", rates.WeldRatePerHour)
	rec.Set("paint_rate_per_m2", rates.PaintRatePerM2)
	rec.Set("profit_margin_pct", rates.ProfitMarginPct)
	rec.Set("vat_pct", rates.VATPct)
	rec.Set("vat_enabled", rates.VATEnabled)
}

func settingsRecord(app core.App) (*core.Record, error) {
	records, err := app.FindRecordsByFilter("shop_settings", "id != ''", "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("load shop_settings: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Customer is the party a quote is issued to.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TaxNumber string `json:"tax_number"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

// Validate checks a customer before it is stored.
func (c Customer) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&c.TaxNumber, validation.By(taxNumberRule)),
		validation.Field(&c.Email, is.EmailFormat),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func customerFromRecord(r *core.Record) Customer {
	return Customer{
		ID:        r.Id,
		Name:      r.GetString("name"),
		TaxNumber: r.GetString("tax_number"),
		Phone:     r.GetString("phone"),
		Email:     r.GetString("email"),
		Notes:     r.GetString("notes"),
	}
}

// CreateCustomer validates and stores a new customer.
func CreateCustomer(app core.App, c Customer) (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return Customer{}, err
	}

	if _, err := app.FindFirstRecordByFilter("customers", "name = {:name}", map[string]any{"name": c.Name}); err == nil {
		return Customer{}, fmt.Errorf("%w: customer %q already exists", ErrInvalidInput, c.Name)
	}

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return Customer{}, fmt.Errorf("find customers collection: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("name", c.Name)
	rec.Set("tax_number", c.TaxNumber)
	rec.Set("phone", c.Phone)
	rec.Set("email", c.Email)
	rec.Set("notes", c.Notes)
	if err := app.Save(rec); err != nil {
		return Customer{}, fmt.Errorf("save customer %q: %w", c.Name, err)
	}
	return customerFromRecord(rec), nil
}

// ListCustomers returns all customers ordered by name.
func ListCustomers(app core.App) ([]Customer, error) {
	records, err := app.FindRecordsByFilter("customers", "id != ''", "name", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]Customer, 0, len(records))
	for _, r := range records {
		out = append(out, customerFromRecord(r))
	}
	return out, nil
}

// ResolveCustomer finds the customer by id, or by exact name, creating a
// name-only customer when none exists yet.
func ResolveCustomer(app core.App, id, name string) (Customer, error) {
	if id != "" {
		rec, err := app.FindRecordById("customers", id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return Customer{}, fmt.Errorf("%w: unknown customer %q", ErrInvalidInput, id)
			}
			return Customer{}, fmt.Errorf("find customer %q: %w", id, err)
		}
		return customerFromRecord(rec), nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, fmt.Errorf("%w: customer_id or customer_name is required", ErrInvalidInput)
	}
	rec, err := app.FindFirstRecordByFilter("customers", "name = {:name}", map[string]any{"name": name})
	if err == nil {
		return customerFromRecord(rec), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Customer{}, fmt.Errorf("find customer %q: %w", name, err)
	}
	return CreateCustomer(app, Customer{Name: name})
}
