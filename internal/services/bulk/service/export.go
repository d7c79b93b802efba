package service

import (
	"context"

	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/services/bulk/domain"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export renders the team's records of an importable entity, header first
// the output re-imports cleanly because the header is the template header
func (s *Svc) Export(ctx context.Context, e domain.EntityType, sc domain.Scope, f domain.ExportFormat) (domain.ExportFile, error) {
	schema, ok := s.schemas.For(e)
	if !ok || !e.Importable() {
		return domain.ExportFile{}, perr.WithField(perr.NotFoundf("%s cannot be exported", e), "entity")
	}
	header := schema.Header()
	rows, err := s.gw.List(ctx, e, sc.TeamID, header, s.limits.ExportMaxRows)
	if err != nil {
		return domain.ExportFile{}, perr.WithOp(err, "bulk.export")
	}

	name := e.Plural() + "_" + s.now().UTC().Format("20060102")
	var out domain.ExportFile
	switch f {
	case domain.FormatXLSX:
		body, err := writeXLSX(e.Plural(), header, rows)
		if err != nil {
			return domain.ExportFile{}, perr.Wrap(err, perr.ErrorCodeUnknown, "render xlsx")
		}
		out = domain.ExportFile{Filename: name + ".xlsx", ContentType: xlsxContentType, Content: body}
	default:
		body, err := writeCSV(append([][]string{header}, rows...))
		if err != nil {
			return domain.ExportFile{}, perr.Wrap(err, perr.ErrorCodeUnknown, "render csv")
		}
		out = domain.ExportFile{Filename: name + ".csv", ContentType: csvContentType, Content: body}
	}

	log(ctx).Info().Str("entity", string(e)).Str("format", string(f)).Int("rows", len(rows)).Msg("bulk export")
	return out, nil
}

// writeXLSX writes one sheet named after the entity with a bold header row
func writeXLSX(sheet string, header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
