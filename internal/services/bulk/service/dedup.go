package service

import (
	"context"

	"dialdesk/internal/core/schema"
	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/services/bulk/domain"
)

// Dedup decides whether a validated record duplicates one already stored
// or one accepted earlier in the same file
//
// one gateway read per row, there is no batched lookup
type Dedup struct {
	gw     domain.Gateway
	entity domain.EntityType
	seen   map[string]struct{}
}

// NewDedup returns a filter with an empty in-batch key set
func NewDedup(gw domain.Gateway, e domain.EntityType) *Dedup {
	return &Dedup{gw: gw, entity: e, seen: map[string]struct{}{}}
}

// ShouldSkip checks the in-batch set first, then the gateway
// entities without a uniqueness key are never skipped
func (d *Dedup) ShouldSkip(ctx context.Context, rec schema.Record, teamID string) (bool, error) {
	key, ok := domain.KeyOf(d.entity, rec)
	if !ok {
		return false, nil
	}
	if _, dup := d.seen[key.String()]; dup {
		return true, nil
	}
	_, found, err := d.gw.FindByKey(ctx, d.entity, key, teamID)
	if err != nil {
		return false, perr.WithOp(err, "bulk.dedup")
	}
	return found, nil
}

// Remember adds the key of an accepted record to the in-batch set
func (d *Dedup) Remember(rec schema.Record) {
	if key, ok := domain.KeyOf(d.entity, rec); ok {
		d.seen[key.String()] = struct{}{}
	}
}
