package service

import (
	"context"
	"strings"

	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/services/bulk/domain"

	"github.com/google/uuid"
)

// BulkUpdateOrders patches orders by id
func (s *Svc) BulkUpdateOrders(ctx context.Context, ids []string, updates map[string]any, sc domain.Scope) (domain.BulkMutationResult, error) {
	return s.BulkUpdate(ctx, domain.BulkUpdateRequest{Entity: domain.Order, IDs: ids, Updates: updates, Scope: sc})
}

// BulkUpdateAgents patches agents by id
func (s *Svc) BulkUpdateAgents(ctx context.Context, ids []string, updates map[string]any, sc domain.Scope) (domain.BulkMutationResult, error) {
	return s.BulkUpdate(ctx, domain.BulkUpdateRequest{Entity: domain.Agent, IDs: ids, Updates: updates, Scope: sc})
}

// BulkUpdate applies one validated patch to every owned id
func (s *Svc) BulkUpdate(ctx context.Context, req domain.BulkUpdateRequest) (domain.BulkMutationResult, error) {
	if !req.Entity.Updatable() {
		return domain.BulkMutationResult{}, perr.WithField(perr.Validationf("%s cannot be updated in bulk", req.Entity), "entity")
	}
	ids, err := s.checkIDs(req.IDs)
	if err != nil {
		return domain.BulkMutationResult{}, err
	}
	sc, ok := s.schemas.For(req.Entity)
	if !ok {
		return domain.BulkMutationResult{}, perr.Internalf("no schema for %s", req.Entity)
	}
	patch, errs := sc.ValidatePatch(req.Updates)
	if len(errs) > 0 {
		return domain.BulkMutationResult{}, patchErr(errs)
	}

	return s.mutate(ctx, domain.OpUpdate, req.Entity, ids, req.Scope, func(ctx context.Context, id string) error {
		return s.gw.UpdateByID(ctx, req.Entity, id, patch, req.Scope.TeamID)
	})
}

// BulkDelete removes every owned id
func (s *Svc) BulkDelete(ctx context.Context, req domain.BulkDeleteRequest) (domain.BulkMutationResult, error) {
	if !req.Entity.Deletable() {
		return domain.BulkMutationResult{}, perr.WithField(perr.Validationf("%s cannot be deleted in bulk", req.Entity), "entity")
	}
	ids, err := s.checkIDs(req.IDs)
	if err != nil {
		return domain.BulkMutationResult{}, err
	}
	return s.mutate(ctx, domain.OpDelete, req.Entity, ids, req.Scope, func(ctx context.Context, id string) error {
		return s.gw.DeleteByID(ctx, req.Entity, id, req.Scope.TeamID)
	})
}

// mutate resolves ownership with one read, then applies fn to owned ids in order
// ids the team does not own fail as not found and never reach fn
func (s *Svc) mutate(ctx context.Context, op string, e domain.EntityType, ids []string, sc domain.Scope, fn func(context.Context, string) error) (domain.BulkMutationResult, error) {
	start := s.now()
	owned, err := s.gw.OwnedIDs(ctx, e, ids, sc.TeamID)
	if err != nil {
		s.metrics.abort(op, e, "gateway")
		return domain.BulkMutationResult{}, perr.WithOp(err, "bulk.owned")
	}

	res := domain.BulkMutationResult{Entity: e, Requested: len(ids), Errors: map[string]string{}}
	for _, id := range ids {
		if !owned[id] {
			res.Fail(id, domain.MsgNotFound)
			continue
		}
		if err := fn(ctx, id); err != nil {
			switch {
			case perr.IsCode(err, perr.ErrorCodeNotFound):
				res.Fail(id, domain.MsgNotFound)
			case perr.IsAnyCode(err, rowLevel...):
				res.Fail(id, perr.MessageOf(err))
			default:
				s.metrics.abort(op, e, "gateway")
				log(ctx).Error().Err(err).Str("op", op).Str("entity", string(e)).Str("id", id).Msg("bulk mutation aborted")
				return domain.BulkMutationResult{}, perr.WithOp(err, "bulk."+op)
			}
			continue
		}
		res.Success++
	}

	elapsed := s.now().Sub(start)
	s.metrics.observeMutation(op, res, elapsed)
	log(ctx).Info().
		Str("op", op).
		Str("entity", string(e)).
		Int("requested", res.Requested).
		Int("success", res.Success).
		Int("failed", res.Failed).
		Dur("elapsed", elapsed).
		Msg("bulk mutation")
	s.record(ctx, domain.Run{
		Op:        op,
		Entity:    e,
		TeamID:    sc.TeamID,
		UserID:    sc.UserID,
		Total:     res.Requested,
		Success:   res.Success,
		Failed:    res.Failed,
		StartedAt: start,
		Elapsed:   elapsed,
	})
	return res, nil
}

// checkIDs canonicalizes and dedups ids keeping first-seen order, then bounds the count
func (s *Svc) checkIDs(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, perr.WithField(perr.Validationf("at least one id is required"), "ids")
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for i, raw := range in {
		u, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, perr.WithField(perr.Validationf("ids[%d] %q is not a uuid", i, raw), "ids")
		}
		id := u.String()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) > s.limits.MaxIDs {
		return nil, perr.WithField(perr.Validationf("%d ids given, at most %d per request", len(out), s.limits.MaxIDs), "ids")
	}
	return out, nil
}

func patchErr(errs []domain.FieldError) error {
	parts := make([]string, len(errs))
	for i, fe := range errs {
		parts[i] = fe.Field + ": " + fe.Message
		if fe.Hint != "" {
			parts[i] += " (" + fe.Hint + ")"
		}
	}
	return perr.WithField(perr.Validationf("invalid updates: %s", strings.Join(parts, "; ")), "updates")
}
