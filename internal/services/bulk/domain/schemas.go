package domain

import (
	"strings"

	"dialdesk/internal/core/schema"

	"github.com/shopspring/decimal"
)

var zero = decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
var one = decimal.NullDecimal{Decimal: decimal.NewFromInt(1), Valid: true}

// Schemas holds one field table per entity
type Schemas struct {
	byEntity map[EntityType]*schema.Schema
}

// NewSchemas builds every entity schema around ph
func NewSchemas(ph schema.PhoneNormalizer) Schemas {
	return Schemas{byEntity: map[EntityType]*schema.Schema{
		Contact: schema.MustNew(string(Contact), ph,
			schema.Field{Name: "phone", Aliases: []string{"phone_number", "mobile", "contact_number", "number"}, Kind: schema.KindPhone, Required: true, Example: "+919876543210"},
			schema.Field{Name: "name", Aliases: []string{"full_name", "contact_name"}, Kind: schema.KindString, MaxLen: 120, Mutable: true, Example: "Asha Rao"},
			schema.Field{Name: "email", Aliases: []string{"email_address", "e_mail"}, Kind: schema.KindEmail, Mutable: true, Example: "asha@example.com"},
			schema.Field{Name: "company", Aliases: []string{"organization", "organisation"}, Kind: schema.KindString, MaxLen: 120, Mutable: true, Example: "Rao Traders"},
			schema.Field{Name: "tags", Kind: schema.KindString, MaxLen: 255, Mutable: true, Example: "vip;north"},
			schema.Field{Name: "notes", Kind: schema.KindString, MaxLen: 1000, Mutable: true},
		),
		Product: schema.MustNew(string(Product), ph,
			schema.Field{Name: "name", Aliases: []string{"product_name", "title"}, Kind: schema.KindString, Required: true, MaxLen: 200, Mutable: true, Example: "Ceiling fan"},
			schema.Field{Name: "category", Kind: schema.KindString, MaxLen: 100, Mutable: true, Example: "appliances"},
			schema.Field{Name: "price", Aliases: []string{"unit_price", "mrp"}, Kind: schema.KindDecimal, Required: true, Scale: 2, Min: zero, Mutable: true, Example: "2499.00"},
			schema.Field{Name: "sku", Aliases: []string{"code"}, Kind: schema.KindString, MaxLen: 64, Example: "FAN-1200"},
			schema.Field{Name: "stock", Aliases: []string{"quantity", "qty"}, Kind: schema.KindInteger, Min: zero, Mutable: true, Example: "25"},
			schema.Field{Name: "status", Kind: schema.KindEnum, Enum: []string{"active", "inactive"}, Mutable: true, Example: "active"},
			schema.Field{Name: "description", Kind: schema.KindString, MaxLen: 2000, Mutable: true},
		),
		Customer: schema.MustNew(string(Customer), ph,
			schema.Field{Name: "phone", Aliases: []string{"phone_number", "mobile", "contact_number"}, Kind: schema.KindPhone, Required: true, Example: "+919812345678"},
			schema.Field{Name: "name", Aliases: []string{"full_name", "customer_name"}, Kind: schema.KindString, Required: true, MaxLen: 120, Mutable: true, Example: "Vikram Shah"},
			schema.Field{Name: "email", Aliases: []string{"email_address", "e_mail"}, Kind: schema.KindEmail, Mutable: true, Example: "vikram@example.com"},
			schema.Field{Name: "address", Kind: schema.KindString, MaxLen: 500, Mutable: true, Example: "12 MG Road"},
			schema.Field{Name: "city", Kind: schema.KindString, MaxLen: 100, Mutable: true, Example: "Pune"},
			schema.Field{Name: "notes", Kind: schema.KindString, MaxLen: 1000, Mutable: true},
		),
		Order: schema.MustNew(string(Order), ph,
			schema.Field{Name: "status", Aliases: []string{"order_status"}, Kind: schema.KindEnum, Required: true, Enum: []string{"pending", "confirmed", "shipped", "delivered", "cancelled"}, Mutable: true, Example: "confirmed"},
			schema.Field{Name: "payment_status", Kind: schema.KindEnum, Required: true, Enum: []string{"unpaid", "paid", "refunded"}, Mutable: true, Example: "paid"},
			schema.Field{Name: "total_amount", Aliases: []string{"amount", "total"}, Kind: schema.KindDecimal, Scale: 2, Min: zero, Mutable: true, Example: "4998.00"},
			schema.Field{Name: "notes", Kind: schema.KindString, MaxLen: 1000, Mutable: true},
		),
		Agent: schema.MustNew(string(Agent), ph,
			schema.Field{Name: "name", Kind: schema.KindString, MaxLen: 120, Mutable: true, Example: "Meera"},
			schema.Field{Name: "status", Kind: schema.KindEnum, Required: true, Enum: []string{"available", "busy", "offline", "on_break"}, Mutable: true, Example: "available"},
			schema.Field{Name: "role", Kind: schema.KindEnum, Required: true, Enum: []string{"agent", "supervisor"}, Mutable: true, Example: "agent"},
			schema.Field{Name: "max_concurrent_calls", Aliases: []string{"max_calls"}, Kind: schema.KindInteger, Required: true, Min: one, Mutable: true, Example: "2"},
		),
	}}
}

// For returns the schema of e
func (s Schemas) For(e EntityType) (*schema.Schema, bool) {
	sc, ok := s.byEntity[e]
	return sc, ok
}

// Key is the uniqueness key of an imported record, columns pair with values
type Key struct {
	Columns []string
	Values  []string
}

// String is the in-batch set key
func (k Key) String() string { return strings.Join(k.Values, "\x1f") }

// KeyColumns are the uniqueness columns per importable entity
var KeyColumns = map[EntityType][]string{
	Contact:  {"phone"},
	Customer: {"phone"},
	Product:  {"name", "category"},
}

// DuplicateMessage is the rejection reason for a row whose key is already stored
func DuplicateMessage(e EntityType) string {
	if e == Product {
		return "a product with this name and category already exists"
	}
	return "phone already exists"
}

// KeyOf extracts the uniqueness key of rec
// product values are lowercased rune by rune and whitespace is kept as is,
// matching the lower(name) and lower(category) index expressions
func KeyOf(e EntityType, rec schema.Record) (Key, bool) {
	cols, ok := KeyColumns[e]
	if !ok {
		return Key{}, false
	}
	k := Key{Columns: cols, Values: make([]string, len(cols))}
	for i, c := range cols {
		v := rec.String(c)
		if e == Product {
			v = strings.ToLower(v)
		}
		k.Values[i] = v
	}
	return k, true
}
