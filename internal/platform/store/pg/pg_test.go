package pg

import (
	"context"
	"errors"
	"testing"

	kit "dialdesk/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_ParseError(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	kit.Serial(t)

	var seen *pgxpool.Config
	kit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil
	})

	mutCalled := false
	p, err := Open(context.Background(),
		Config{URL: "postgres://u:p@h:5432/db?sslmode=disable", MaxConns: 7, SlowMs: 250},
		nil,
		func(*pgxpool.Config) { mutCalled = true })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !mutCalled || seen.MaxConns != 7 {
		t.Fatalf("config not applied: mut=%v max=%d", mutCalled, seen.MaxConns)
	}
	if seen.ConnConfig.RuntimeParams["application_name"] != "dialdesk" {
		t.Fatalf("application_name = %q", seen.ConnConfig.RuntimeParams["application_name"])
	}
	if p.SlowMs != 250 {
		t.Fatalf("SlowMs = %d", p.SlowMs)
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db"}, nil, nil); err == nil {
		t.Fatalf("expected pool error")
	}
}

func TestClose_NilSafe(t *testing.T) {
	t.Parallel()

	var p *PG
	p.Close()
	(&PG{}).Close()
}
