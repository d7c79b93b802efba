package repo

import (
	"fmt"

	perr "dialdesk/internal/platform/errors"
	pstrings "dialdesk/internal/platform/strings"
	"dialdesk/internal/services/bulk/domain"

	"github.com/shopspring/decimal"
)

// table is the static whitelist for one entity, SQL identifiers only ever come from here
type table struct {
	name string
	// columns maps a writable column to the cast applied to its placeholder
	columns map[string]string
	// keys maps an import key column to the expression it is compared with
	keys map[string]string
	// dupField and dupMsg describe a unique violation on the import key
	dupField string
	dupMsg   string
}

var tables = map[domain.EntityType]table{
	domain.Contact: {
		name:     "contacts",
		columns:  map[string]string{"phone": "", "name": "", "email": "", "company": "", "tags": "", "notes": ""},
		keys:     map[string]string{"phone": "phone"},
		dupField: "phone",
		dupMsg:   domain.DuplicateMessage(domain.Contact),
	},
	domain.Product: {
		name: "products",
		columns: map[string]string{
			"name": "", "category": "", "price": "::numeric", "sku": "",
			"stock": "::bigint", "status": "", "description": "",
		},
		keys:     map[string]string{"name": "lower(name)", "category": "lower(coalesce(category, ''))"},
		dupField: "name",
		dupMsg:   domain.DuplicateMessage(domain.Product),
	},
	domain.Customer: {
		name:     "customers",
		columns:  map[string]string{"phone": "", "name": "", "email": "", "address": "", "city": "", "notes": ""},
		keys:     map[string]string{"phone": "phone"},
		dupField: "phone",
		dupMsg:   domain.DuplicateMessage(domain.Customer),
	},
	domain.Order: {
		name:    "orders",
		columns: map[string]string{"status": "", "payment_status": "", "total_amount": "::numeric", "notes": ""},
	},
	domain.Agent: {
		name:    "agents",
		columns: map[string]string{"name": "", "status": "", "role": "", "max_concurrent_calls": "::integer"},
	},
}

func tableFor(e domain.EntityType) (table, error) {
	t, ok := tables[e]
	if !ok {
		return table{}, perr.WithField(perr.InvalidArgf("unknown entity %q", e), "entity")
	}
	return t, nil
}

// column returns the placeholder cast for a whitelisted column
func (t table) column(name string) (string, error) {
	cast, ok := t.columns[name]
	if !ok {
		return "", perr.WithField(perr.InvalidArgf("%s has no column %q", t.name, name), name)
	}
	return cast, nil
}

// param converts record values into driver friendly arguments
func param(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.String()
	case string:
		return pstrings.SQLNull(x)
	case nil:
		return nil
	default:
		return x
	}
}

func placeholder(n int, cast string) string { return fmt.Sprintf("$%d%s", n, cast) }
