//go:build integration_pg

package repo

import (
	"context"
	"io"
	"testing"
	"time"

	"dialdesk/internal/core/phone"
	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/platform/store"
	"dialdesk/internal/platform/store/pgtest"
	"dialdesk/internal/services/bulk/domain"
	"dialdesk/internal/services/bulk/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestGateway_Integration_PG(t *testing.T) {
	dsn := pgtest.Start(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2}},
		store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := Migrate(ctx, st.PG); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Migrate(ctx, st.PG); err != nil {
		t.Fatalf("migrate is not idempotent: %v", err)
	}

	gw := NewPG().Bind(st.PG)
	svc := service.New(gw, domain.NewSchemas(phone.Normalizer{Region: phone.DefaultRegion}))
	teamA := domain.Scope{TeamID: uuid.NewString(), UserID: uuid.NewString()}
	teamB := domain.Scope{TeamID: uuid.NewString(), UserID: uuid.NewString()}

	raw := []byte("phone,name,email\n+911,A,a@x.com\n,B,\n+911,A,a@x.com\n")
	res, err := svc.ImportContacts(ctx, raw, teamA, domain.ImportOptions{SkipDuplicates: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Success != 1 || res.Failed != 1 || res.Skipped != 1 {
		t.Fatalf("import = %+v", res)
	}

	// without the filter the unique index rejects the repeat
	res, err = svc.ImportContacts(ctx, raw, teamA, domain.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Success != 0 || res.Failed != 3 || res.Details[0].Reason != "phone already exists" {
		t.Fatalf("repeat import = %+v", res)
	}

	// a dry run predicts the same rejections without writing
	dry, err := svc.ImportContacts(ctx, raw, teamA, domain.ImportOptions{ValidateOnly: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if dry.Success != res.Success || dry.Failed != res.Failed || dry.Details[0].Reason != res.Details[0].Reason {
		t.Fatalf("dry run = %+v, real = %+v", dry, res)
	}

	// the same number is free in another team
	if res, err = svc.ImportContacts(ctx, raw, teamB, domain.ImportOptions{SkipDuplicates: true}); err != nil || res.Success != 1 {
		t.Fatalf("team b import = %+v %v", res, err)
	}

	prod := []byte("name,category,price,stock\nFan,Home,10.5,3\nFAN,home,11,1\n")
	res, err = svc.ImportProducts(ctx, prod, teamA, domain.ImportOptions{})
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if res.Success != 1 || res.Failed != 1 || res.Details[1].Reason == "" {
		t.Fatalf("products = %+v", res)
	}
	if _, found, err := gw.FindByKey(ctx, domain.Product, domain.Key{Columns: []string{"name", "category"}, Values: []string{"fan", "home"}}, teamA.TeamID); err != nil || !found {
		t.Fatalf("find product = %v %v", found, err)
	}

	// keys compare through lower() only, ß and inner whitespace are kept
	odd := []byte("name,category,price\nCeiling  Fan,Home,10\nStraße,Home,10\nSTRASSE,Home,10\n")
	res, err = svc.ImportProducts(ctx, odd, teamA, domain.ImportOptions{SkipDuplicates: true})
	if err != nil || res.Success != 3 {
		t.Fatalf("distinct products = %+v %v", res, err)
	}
	res, err = svc.ImportProducts(ctx, odd, teamA, domain.ImportOptions{SkipDuplicates: true})
	if err != nil || res.Skipped != 3 || res.Failed != 0 {
		t.Fatalf("stored products should be skipped, not rejected: %+v %v", res, err)
	}

	var orders []string
	for i := 0; i < 3; i++ {
		id, err := store.Scalar[string](ctx, st.PG, `insert into orders (team_id) values ($1::uuid) returning id::text`, teamA.TeamID)
		if err != nil {
			t.Fatalf("seed order: %v", err)
		}
		orders = append(orders, id)
	}
	foreign, err := store.Scalar[string](ctx, st.PG, `insert into orders (team_id) values ($1::uuid) returning id::text`, teamB.TeamID)
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}

	upd, err := svc.BulkUpdateOrders(ctx, append(orders, foreign, orders[0]), map[string]any{"status": "shipped", "total_amount": "99.999"}, teamA)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Requested != 4 || upd.Success != 3 || upd.Errors[foreign] != "not found" {
		t.Fatalf("update = %+v", upd)
	}
	status, err := store.Scalar[string](ctx, st.PG, `select status from orders where id = $1::uuid`, foreign)
	if err != nil || status != "pending" {
		t.Fatalf("foreign order touched: %q %v", status, err)
	}
	amount, err := store.Scalar[string](ctx, st.PG, `select total_amount::text from orders where id = $1::uuid`, orders[0])
	if err != nil || amount != "100.00" {
		t.Fatalf("amount = %q %v", amount, err)
	}

	del, err := svc.BulkDelete(ctx, domain.BulkDeleteRequest{
		Entity: domain.Order,
		IDs:    append(orders, uuid.NewString(), uuid.NewString()),
		Scope:  teamA,
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if del.Success != 3 || del.Failed != 2 {
		t.Fatalf("delete = %+v", del)
	}

	rows, err := gw.List(ctx, domain.Contact, teamA.TeamID, []string{"phone", "name", "email"}, 10)
	if err != nil || len(rows) != 1 || rows[0][0] != "+911" || rows[0][2] != "a@x.com" {
		t.Fatalf("list = %v %v", rows, err)
	}

	if err := gw.DeleteByID(ctx, domain.Contact, uuid.NewString(), teamA.TeamID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing delete = %v", err)
	}
}
