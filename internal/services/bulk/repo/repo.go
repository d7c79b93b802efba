// Package repo provides the postgres gateway for bulk operations
package repo

import (
	"context"
	_ "embed"
	"strings"

	"dialdesk/internal/core/schema"
	"dialdesk/internal/modkit/repokit"
	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/platform/store"
	"dialdesk/internal/services/bulk/domain"
)

// Schema creates the bulk tables, every statement is idempotent
//
//go:embed schema.sql
var Schema string

type (
	// PG is a binder that can bind the gateway to a Queryer or TxRunner
	PG struct{}
	// queries implements domain.Gateway
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres gateway
func NewPG() repokit.Binder[domain.Gateway] { return PG{} }

// Bind wires a Queryer to the gateway
func (PG) Bind(q repokit.Queryer) domain.Gateway { return &queries{q: q} }

// Migrate applies Schema
func Migrate(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return perr.FromPostgres(err, "apply bulk schema")
	}
	return nil
}

func (r *queries) Create(ctx context.Context, e domain.EntityType, rec schema.Record, sc domain.Scope) (string, error) {
	t, err := tableFor(e)
	if err != nil {
		return "", err
	}
	names := rec.Names()
	cols := make([]string, 0, len(names)+2)
	vals := make([]string, 0, len(names)+2)
	args := make([]any, 0, len(names)+2)

	cols = append(cols, "team_id", "created_by")
	vals = append(vals, "$1::uuid", "nullif($2, '')::uuid")
	args = append(args, sc.TeamID, sc.UserID)
	for _, n := range names {
		cast, err := t.column(n)
		if err != nil {
			return "", err
		}
		v, _ := rec.Get(n)
		args = append(args, param(v))
		cols = append(cols, n)
		vals = append(vals, placeholder(len(args), cast))
	}

	sql := "insert into " + t.name + " (" + strings.Join(cols, ", ") + ") values (" +
		strings.Join(vals, ", ") + ") returning id::text"

	id, err := store.Scalar[string](ctx, r.q, sql, args...)
	if err != nil {
		err = perr.FromPostgresWithField(err, "could not create "+string(e))
		if perr.IsCode(err, perr.ErrorCodeDuplicateKey) && t.dupMsg != "" {
			return "", perr.WithField(perr.Wrap(err, perr.ErrorCodeDuplicateKey, t.dupMsg), t.dupField)
		}
		return "", err
	}
	return id, nil
}

func (r *queries) FindByKey(ctx context.Context, e domain.EntityType, key domain.Key, teamID string) (string, bool, error) {
	t, err := tableFor(e)
	if err != nil {
		return "", false, err
	}
	if len(key.Columns) == 0 || len(key.Columns) != len(key.Values) {
		return "", false, perr.InvalidArgf("malformed key for %s", e)
	}

	var sb strings.Builder
	sb.WriteString("select id::text from " + t.name + " where team_id = $1::uuid")
	args := []any{teamID}
	for i, c := range key.Columns {
		expr, ok := t.keys[c]
		if !ok {
			return "", false, perr.WithField(perr.InvalidArgf("%s is not a key of %s", c, t.name), c)
		}
		args = append(args, key.Values[i])
		sb.WriteString(" and " + expr + " = " + placeholder(len(args), ""))
	}
	sb.WriteString(" limit 1")

	id, err := store.One(ctx, r.q, scanID, sb.String(), args...)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return "", false, nil
		}
		return "", false, perr.FromPostgres(err, "could not look up "+string(e))
	}
	return id, true, nil
}

func (r *queries) OwnedIDs(ctx context.Context, e domain.EntityType, ids []string, teamID string) (map[string]bool, error) {
	t, err := tableFor(e)
	if err != nil {
		return nil, err
	}
	sql := "select id::text from " + t.name + " where team_id = $1::uuid and id = any($2::text[]::uuid[])"
	found, err := store.Many(ctx, r.q, scanID, sql, teamID, ids)
	if err != nil {
		return nil, perr.FromPostgres(err, "could not resolve "+t.name)
	}
	out := make(map[string]bool, len(found))
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

func scanID(row store.Row) (string, error) {
	var id string
	return id, row.Scan(&id)
}

func (r *queries) UpdateByID(ctx context.Context, e domain.EntityType, id string, patch schema.Record, teamID string) error {
	t, err := tableFor(e)
	if err != nil {
		return err
	}
	if patch.Len() == 0 {
		return perr.WithField(perr.InvalidArgf("empty patch"), "updates")
	}
	args := []any{id, teamID}
	sets := make([]string, 0, patch.Len()+1)
	for _, n := range patch.Names() {
		cast, err := t.column(n)
		if err != nil {
			return err
		}
		v, _ := patch.Get(n)
		args = append(args, param(v))
		sets = append(sets, n+" = "+placeholder(len(args), cast))
	}
	sets = append(sets, "updated_at = now()")

	sql := "update " + t.name + " set " + strings.Join(sets, ", ") + " where id = $1::uuid and team_id = $2::uuid"
	if err := store.ExecOne(ctx, r.q, sql, args...); err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return err
		}
		return perr.FromPostgresWithField(err, "could not update "+string(e))
	}
	return nil
}

func (r *queries) DeleteByID(ctx context.Context, e domain.EntityType, id, teamID string) error {
	t, err := tableFor(e)
	if err != nil {
		return err
	}
	sql := "delete from " + t.name + " where id = $1::uuid and team_id = $2::uuid"
	if err := store.ExecOne(ctx, r.q, sql, id, teamID); err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return err
		}
		return perr.FromPostgresWithField(err, "could not delete "+string(e))
	}
	return nil
}

func (r *queries) List(ctx context.Context, e domain.EntityType, teamID string, columns []string, limit int) ([][]string, error) {
	t, err := tableFor(e)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, perr.InvalidArgf("no columns requested")
	}
	sel := make([]string, len(columns))
	for i, c := range columns {
		if _, err := t.column(c); err != nil {
			return nil, err
		}
		sel[i] = "coalesce(" + c + "::text, '')"
	}
	sql := "select " + strings.Join(sel, ", ") + " from " + t.name +
		" where team_id = $1::uuid order by created_at, id limit $2"

	rows, err := store.Many(ctx, r.q, func(row store.Row) ([]string, error) {
		vals := make([]string, len(columns))
		dest := make([]any, len(columns))
		for i := range vals {
			dest[i] = &vals[i]
		}
		return vals, row.Scan(dest...)
	}, sql, teamID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "could not list "+t.name)
	}
	return rows, nil
}
