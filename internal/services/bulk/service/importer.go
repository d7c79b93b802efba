package service

import (
	"context"

	"dialdesk/internal/core/csvrows"
	"dialdesk/internal/core/schema"
	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/services/bulk/domain"

	"github.com/gabriel-vasile/mimetype"
)

// decode is swapped in tests to prove oversize files never reach the parser
var decode = csvrows.Decode

// rowLevel are gateway codes that reject one row and let the batch continue
var rowLevel = []perr.ErrorCode{
	perr.ErrorCodeDuplicateKey,
	perr.ErrorCodeConflict,
	perr.ErrorCodeValidation,
	perr.ErrorCodeInvalidArgument,
}

// ImportContacts imports a contacts file
func (s *Svc) ImportContacts(ctx context.Context, raw []byte, sc domain.Scope, opt domain.ImportOptions) (domain.ImportResult, error) {
	return s.Import(ctx, importRequest(domain.Contact, raw, sc, opt))
}

// ImportProducts imports a products file
func (s *Svc) ImportProducts(ctx context.Context, raw []byte, sc domain.Scope, opt domain.ImportOptions) (domain.ImportResult, error) {
	return s.Import(ctx, importRequest(domain.Product, raw, sc, opt))
}

// ImportCustomers imports a customers file
func (s *Svc) ImportCustomers(ctx context.Context, raw []byte, sc domain.Scope, opt domain.ImportOptions) (domain.ImportResult, error) {
	return s.Import(ctx, importRequest(domain.Customer, raw, sc, opt))
}

func importRequest(e domain.EntityType, raw []byte, sc domain.Scope, opt domain.ImportOptions) domain.ImportJobRequest {
	return domain.ImportJobRequest{
		Entity:         e,
		Raw:            raw,
		Scope:          sc,
		SkipDuplicates: opt.SkipDuplicates,
		ValidateOnly:   opt.ValidateOnly,
	}
}

// Import runs one file through decode, validate, dedup and create, row by row in file order
//
// a bad row never aborts the batch, a malformed file or a gateway outage aborts it with no result
func (s *Svc) Import(ctx context.Context, req domain.ImportJobRequest) (domain.ImportResult, error) {
	start := s.now()
	if !req.Entity.Importable() {
		return domain.ImportResult{}, perr.WithField(perr.NotFoundf("%s cannot be imported", req.Entity), "entity")
	}
	sc, ok := s.schemas.For(req.Entity)
	if !ok {
		return domain.ImportResult{}, perr.Internalf("no schema for %s", req.Entity)
	}
	if err := s.checkUpload(req.Raw); err != nil {
		s.metrics.abort(domain.OpImport, req.Entity, "upload")
		return domain.ImportResult{}, err
	}

	tbl, err := decode(req.Raw)
	if err != nil {
		s.metrics.abort(domain.OpImport, req.Entity, "format")
		return domain.ImportResult{}, err
	}

	res := domain.ImportResult{
		Entity:  req.Entity,
		DryRun:  req.ValidateOnly,
		Details: make([]domain.RowOutcome, 0, len(tbl.Rows)),
	}
	dd := NewDedup(s.gw, req.Entity)
	for _, row := range tbl.Rows {
		out, err := s.importRow(ctx, req, sc, dd, row)
		if err != nil {
			s.metrics.abort(domain.OpImport, req.Entity, "gateway")
			log(ctx).Error().Err(err).Str("entity", string(req.Entity)).Int("line", row.Line).Msg("bulk import aborted")
			return domain.ImportResult{}, err
		}
		res.Add(out)
	}

	elapsed := s.now().Sub(start)
	s.metrics.observeImport(res, elapsed)
	log(ctx).Info().
		Str("entity", string(req.Entity)).
		Int("total", res.Total).
		Int("success", res.Success).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Bool("dry_run", res.DryRun).
		Bool("skip_duplicates", req.SkipDuplicates).
		Dur("elapsed", elapsed).
		Msg("bulk import")
	if !req.ValidateOnly {
		s.record(ctx, domain.Run{
			Op:        domain.OpImport,
			Entity:    req.Entity,
			TeamID:    req.Scope.TeamID,
			UserID:    req.Scope.UserID,
			Total:     res.Total,
			Success:   res.Success,
			Failed:    res.Failed,
			Skipped:   res.Skipped,
			StartedAt: start,
			Elapsed:   elapsed,
		})
	}
	return res, nil
}

// importRow returns the outcome of one row, an error means the whole batch stops
func (s *Svc) importRow(ctx context.Context, req domain.ImportJobRequest, sc *schema.Schema, dd *Dedup, row csvrows.Row) (domain.RowOutcome, error) {
	out := domain.RowOutcome{Row: row.Index, Line: row.Line}

	rec, errs := sc.Validate(row.Values)
	if len(errs) > 0 {
		out.Status = domain.StatusRejected
		out.Errors = errs
		return out, nil
	}
	out.Record = rec.Map()

	// a dry run checks keys either way so its counts match the real run
	if req.SkipDuplicates || req.ValidateOnly {
		dup, err := dd.ShouldSkip(ctx, rec, req.Scope.TeamID)
		if err != nil {
			return out, err
		}
		switch {
		case dup && req.SkipDuplicates:
			out.Status = domain.StatusSkipped
			out.Reason = domain.ReasonDuplicate
			return out, nil
		case dup:
			// the store refuses this write, report it the way a failed create is reported
			msg := domain.DuplicateMessage(req.Entity)
			out.Status = domain.StatusRejected
			out.Reason = msg
			out.Errors = []domain.FieldError{{Field: domain.KeyColumns[req.Entity][0], Message: schema.MsgInvalidFormat, Hint: msg}}
			return out, nil
		}
	}

	if req.ValidateOnly {
		dd.Remember(rec)
		out.Status = domain.StatusAccepted
		return out, nil
	}

	id, err := s.gw.Create(ctx, req.Entity, rec, req.Scope)
	if err != nil {
		if !perr.IsAnyCode(err, rowLevel...) {
			return out, perr.WithOp(err, "bulk.create")
		}
		out.Status = domain.StatusRejected
		out.Reason = perr.MessageOf(err)
		if e, ok := perr.As(err); ok && e.Field() != "" {
			out.Errors = []domain.FieldError{{Field: e.Field(), Message: schema.MsgInvalidFormat, Hint: e.Message()}}
		}
		return out, nil
	}
	dd.Remember(rec)
	out.Status = domain.StatusAccepted
	out.RecordID = id
	return out, nil
}

// checkUpload enforces the size cap and refuses payloads that do not sniff as text
func (s *Svc) checkUpload(raw []byte) error {
	if int64(len(raw)) > s.limits.MaxUploadBytes {
		return perr.WithField(perr.TooLargef("file is %d bytes, the limit is %d", len(raw), s.limits.MaxUploadBytes), "file")
	}
	if len(raw) == 0 {
		return nil
	}
	for m := mimetype.Detect(raw); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return perr.WithField(perr.Validationf("file must be CSV text, got %s", mimetype.Detect(raw).String()), "file")
}
