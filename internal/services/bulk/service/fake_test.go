package service

import (
	"context"
	"strings"
	"sync"

	"dialdesk/internal/core/phone"
	"dialdesk/internal/core/schema"
	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/services/bulk/domain"

	"github.com/google/uuid"
)

const (
	teamA = "6f1c2b7e-0a3d-4c55-9d1e-2b8f7a6c5d40"
	teamB = "0b9e8d7c-6a5f-4e3d-8c2b-1a0f9e8d7c6b"
	userA = "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e6f"
)

var scopeA = domain.Scope{TeamID: teamA, UserID: userA}

type fakeRow struct {
	id     string
	team   string
	entity domain.EntityType
	rec    schema.Record
}

// fakeGateway is an in-memory team scoped store that enforces import keys like the real tables
type fakeGateway struct {
	mu   sync.Mutex
	rows []*fakeRow

	creates  int
	finds    int
	owned    int
	updated  []string
	deleted  []string
	patches  []schema.Record
	listArgs []int

	createErr error
	findErr   error
	ownedErr  error
	applyErr  map[string]error
}

func newFake() *fakeGateway { return &fakeGateway{applyErr: map[string]error{}} }

func newSvc(gw domain.Gateway, opts ...Option) *Svc {
	return New(gw, domain.NewSchemas(phone.Normalizer{Region: phone.DefaultRegion}), opts...)
}

// seed stores a row directly and returns its id
func (f *fakeGateway) seed(e domain.EntityType, team string, kv ...string) string {
	rec := schema.NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		rec.Set(kv[i], kv[i+1])
	}
	id := uuid.NewString()
	f.rows = append(f.rows, &fakeRow{id: id, team: team, entity: e, rec: rec})
	return id
}

func (f *fakeGateway) find(e domain.EntityType, key domain.Key, team string) *fakeRow {
	for _, r := range f.rows {
		if r.entity != e || r.team != team {
			continue
		}
		if storedKeyMatches(e, r.rec, key) {
			return r
		}
	}
	return nil
}

// storedKeyMatches compares like the unique indexes do, lower() on product
// columns with a missing category read as "", plain equality on phone
func storedKeyMatches(e domain.EntityType, rec schema.Record, key domain.Key) bool {
	if len(key.Columns) == 0 || len(key.Columns) != len(key.Values) {
		return false
	}
	for i, c := range key.Columns {
		v := rec.String(c)
		if e == domain.Product {
			v = strings.ToLower(v)
		}
		if v != key.Values[i] {
			return false
		}
	}
	return true
}

func (f *fakeGateway) byID(e domain.EntityType, id string) *fakeRow {
	for _, r := range f.rows {
		if r.entity == e && r.id == id {
			return r
		}
	}
	return nil
}

func (f *fakeGateway) Create(_ context.Context, e domain.EntityType, rec schema.Record, sc domain.Scope) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return "", f.createErr
	}
	if k, ok := domain.KeyOf(e, rec); ok && f.find(e, k, sc.TeamID) != nil {
		return "", perr.WithField(perr.DuplicateKeyf("%s", domain.DuplicateMessage(e)), k.Columns[0])
	}
	id := uuid.NewString()
	f.rows = append(f.rows, &fakeRow{id: id, team: sc.TeamID, entity: e, rec: rec})
	return id, nil
}

func (f *fakeGateway) FindByKey(_ context.Context, e domain.EntityType, key domain.Key, teamID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if f.findErr != nil {
		return "", false, f.findErr
	}
	if r := f.find(e, key, teamID); r != nil {
		return r.id, true, nil
	}
	return "", false, nil
}

func (f *fakeGateway) OwnedIDs(_ context.Context, e domain.EntityType, ids []string, teamID string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owned++
	if f.ownedErr != nil {
		return nil, f.ownedErr
	}
	out := map[string]bool{}
	for _, id := range ids {
		if r := f.byID(e, id); r != nil && r.team == teamID {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeGateway) UpdateByID(_ context.Context, e domain.EntityType, id string, patch schema.Record, teamID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id)
	f.patches = append(f.patches, patch)
	if err := f.applyErr[id]; err != nil {
		return err
	}
	r := f.byID(e, id)
	if r == nil || r.team != teamID {
		return perr.ErrNotFound
	}
	for _, n := range patch.Names() {
		v, _ := patch.Get(n)
		r.rec.Set(n, v)
	}
	return nil
}

func (f *fakeGateway) DeleteByID(_ context.Context, e domain.EntityType, id, teamID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if err := f.applyErr[id]; err != nil {
		return err
	}
	for i, r := range f.rows {
		if r.entity == e && r.id == id && r.team == teamID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return perr.ErrNotFound
}

func (f *fakeGateway) List(_ context.Context, e domain.EntityType, teamID string, columns []string, limit int) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listArgs = append(f.listArgs, limit)
	var out [][]string
	for _, r := range f.rows {
		if r.entity != e || r.team != teamID {
			continue
		}
		if len(out) == limit {
			break
		}
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = r.rec.String(c)
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeAudit struct {
	runs []domain.Run
	err  error
}

func (a *fakeAudit) Record(_ context.Context, run domain.Run) error {
	a.runs = append(a.runs, run)
	return a.err
}
