package domain

import (
	"testing"

	"dialdesk/internal/core/phone"
	"dialdesk/internal/core/schema"
	perr "dialdesk/internal/platform/errors"
)

func TestParseEntity(t *testing.T) {
	cases := map[string]EntityType{
		"contact":    Contact,
		"Contacts":   Contact,
		" products ": Product,
		"ORDER":      Order,
		"agents":     Agent,
	}
	for in, want := range cases {
		got, err := ParseEntity(in)
		if err != nil || got != want {
			t.Fatalf("ParseEntity(%q) = %q, %v want %q", in, got, err, want)
		}
	}
	if _, err := ParseEntity("campaigns"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown entity should be not found, got %v", err)
	}
}

func TestEntityCapabilities(t *testing.T) {
	for _, e := range []EntityType{Contact, Product, Customer} {
		if !e.Importable() || e.Updatable() || !e.Deletable() {
			t.Fatalf("%s capabilities wrong", e)
		}
	}
	for _, e := range []EntityType{Order, Agent} {
		if e.Importable() || !e.Updatable() || !e.Deletable() {
			t.Fatalf("%s capabilities wrong", e)
		}
	}
	if EntityType("campaign").Deletable() {
		t.Fatalf("unknown entity must not be deletable")
	}
}

func TestSchemas_EveryEntityHasOne(t *testing.T) {
	s := NewSchemas(phone.Normalizer{Region: phone.DefaultRegion})
	for _, e := range Entities {
		sc, ok := s.For(e)
		if !ok || sc.Entity() != string(e) {
			t.Fatalf("missing schema for %s", e)
		}
		if e.Updatable() {
			for _, f := range sc.Fields() {
				if !f.Mutable {
					t.Fatalf("%s.%s should be mutable", e, f.Name)
				}
			}
		}
	}
}

func TestSchemas_ContactAliases(t *testing.T) {
	s := NewSchemas(phone.Normalizer{Region: phone.DefaultRegion})
	sc, _ := s.For(Contact)
	rec, errs := sc.Validate(map[string]string{"mobile": "+911", "email": "A@X.com"})
	if len(errs) != 0 {
		t.Fatalf("errs = %+v", errs)
	}
	if rec.String("phone") != "+911" || rec.String("email") != "a@x.com" {
		t.Fatalf("rec = %+v", rec.Map())
	}
}

func TestKeyOf(t *testing.T) {
	rec := schema.NewRecord()
	rec.Set("name", "Ceiling Fan")
	rec.Set("category", "Appliances")
	k, ok := KeyOf(Product, rec)
	if !ok || k.Values[0] != "ceiling fan" || k.Values[1] != "appliances" {
		t.Fatalf("product key = %+v", k)
	}

	other := schema.NewRecord()
	other.Set("name", "ceiling fan")
	other.Set("category", "APPLIANCES")
	k2, _ := KeyOf(Product, other)
	if k.String() != k2.String() {
		t.Fatalf("keys should match case-insensitively: %q vs %q", k, k2)
	}

	c := schema.NewRecord()
	c.Set("phone", "+911")
	if k, ok := KeyOf(Contact, c); !ok || k.Columns[0] != "phone" || k.Values[0] != "+911" {
		t.Fatalf("contact key = %+v", k)
	}
	if _, ok := KeyOf(Order, c); ok {
		t.Fatalf("orders have no import key")
	}
}

func TestKeyOf_ProductFollowsSQLLower(t *testing.T) {
	key := func(name string) Key {
		rec := schema.NewRecord()
		rec.Set("name", name)
		k, _ := KeyOf(Product, rec)
		return k
	}
	cases := []struct {
		name string
		want string
	}{
		{"Straße", "straße"},
		{"STRASSE", "strasse"},
		{"Ceiling  Fan", "ceiling  fan"},
		{"ÉCLAIR", "éclair"},
	}
	for _, c := range cases {
		if got := key(c.name); got.Values[0] != c.want || got.Values[1] != "" {
			t.Fatalf("%q key = %q", c.name, got.Values)
		}
	}
	if key("Straße").String() == key("STRASSE").String() {
		t.Fatalf("ß and ss must stay distinct keys")
	}
	if key("Ceiling  Fan").String() == key("Ceiling Fan").String() {
		t.Fatalf("inner whitespace must not collapse")
	}
}

func TestDuplicateMessage(t *testing.T) {
	if DuplicateMessage(Contact) != "phone already exists" || DuplicateMessage(Customer) != "phone already exists" {
		t.Fatalf("phone keyed message = %q", DuplicateMessage(Contact))
	}
	if DuplicateMessage(Product) != "a product with this name and category already exists" {
		t.Fatalf("product message = %q", DuplicateMessage(Product))
	}
}

func TestImportResultAdd(t *testing.T) {
	var r ImportResult
	r.Add(RowOutcome{Status: StatusAccepted})
	r.Add(RowOutcome{Status: StatusRejected})
	r.Add(RowOutcome{Status: StatusSkipped})
	if r.Total != 3 || r.Success != 1 || r.Failed != 1 || r.Skipped != 1 || len(r.Details) != 3 {
		t.Fatalf("result = %+v", r)
	}
}

func TestParseExportFormat(t *testing.T) {
	if f, err := ParseExportFormat(""); err != nil || f != FormatCSV {
		t.Fatalf("default = %q %v", f, err)
	}
	if f, err := ParseExportFormat("XLSX"); err != nil || f != FormatXLSX {
		t.Fatalf("xlsx = %q %v", f, err)
	}
	if _, err := ParseExportFormat("pdf"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("pdf should fail validation, got %v", err)
	}
}
