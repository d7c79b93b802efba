package service

import (
	"bytes"
	"encoding/csv"

	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/services/bulk/domain"
)

const csvContentType = "text/csv; charset=utf-8"

// Template returns the header row plus one example row for an importable entity
func (s *Svc) Template(e domain.EntityType) (domain.Template, error) {
	return TemplateFor(s.schemas, e)
}

// TemplateFor renders the template without a gateway, the CLI prints it offline
func TemplateFor(schemas domain.Schemas, e domain.EntityType) (domain.Template, error) {
	sc, ok := schemas.For(e)
	if !ok || !e.Importable() {
		return domain.Template{}, perr.WithField(perr.NotFoundf("no template for %s", e), "entity")
	}
	body, err := writeCSV([][]string{sc.Header(), sc.Example()})
	if err != nil {
		return domain.Template{}, perr.Wrap(err, perr.ErrorCodeUnknown, "render template")
	}
	return domain.Template{
		Filename:    e.Plural() + "_template.csv",
		ContentType: csvContentType,
		Content:     body,
	}, nil
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
