// Package http provides http transport for bulk operations
package http

import (
	"errors"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"path/filepath"
	"strconv"
	"strings"

	"dialdesk/internal/modkit/httpkit"
	perr "dialdesk/internal/platform/errors"
	"dialdesk/internal/services/bulk/domain"
	svc "dialdesk/internal/services/bulk/service"

	"github.com/go-chi/chi/v5"
)

// formOverhead is the multipart framing allowed on top of the upload limit
const formOverhead = 1 << 20

// formMemory is how much of a form is kept in memory before spilling to disk
const formMemory = 8 << 20

// UpdateInput is the body of PATCH /bulk/orders and /bulk/agents
type UpdateInput struct {
	IDs     []string       `json:"ids"     validate:"required"`
	Updates map[string]any `json:"updates" validate:"required"`
}

// DeleteInput is the body of POST /bulk/{entity}/delete
type DeleteInput struct {
	IDs []string `json:"ids" validate:"required"`
}

// Register mounts bulk endpoints on the given router
// maxUpload caps an import file, the request body may exceed it by formOverhead
func Register(r httpkit.Router, s svc.Service, maxUpload int64) {
	h := &handlers{svc: s, maxUpload: maxUpload}

	// multipart csv imports
	httpkit.Post(r, "/contacts/import", h.importer(domain.Contact))
	httpkit.Post(r, "/products/import", h.importer(domain.Product))
	httpkit.Post(r, "/customers/import", h.importer(domain.Customer))

	// one patch over many ids
	httpkit.PatchJSON[UpdateInput](r, "/orders", h.updater(domain.Order))
	httpkit.PatchJSON[UpdateInput](r, "/agents", h.updater(domain.Agent))

	httpkit.PostJSON[DeleteInput](r, "/{entity}/delete", h.delete)
	httpkit.Get(r, "/{entity}/template", h.template)
	httpkit.Get(r, "/{entity}/export", h.export)
}

type handlers struct {
	svc       svc.Service
	maxUpload int64
}

func scope(r *stdhttp.Request) (domain.Scope, error) {
	uid, tid, err := httpkit.Caller(r)
	if err != nil {
		return domain.Scope{}, err
	}
	return domain.Scope{TeamID: tid, UserID: uid}, nil
}

func entityParam(r *stdhttp.Request) (domain.EntityType, error) {
	return domain.ParseEntity(chi.URLParam(r, "entity"))
}

// swagger:route POST /bulk/{entity}/import Bulk bulkImport
// @Summary Import a CSV file
// @Tags Bulk
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param skip_duplicates formData boolean false "Skip rows whose key already exists"
// @Param validate_only formData boolean false "Validate without writing"
// @Success 200 {object} domain.ImportResult "ok"
// @Failure 413 {object} httpkit.Envelope "file too large"
// @Router /bulk/{entity}/import [post]
func (h *handlers) importer(e domain.EntityType) func(*stdhttp.Request) (any, error) {
	return func(r *stdhttp.Request) (any, error) {
		sc, err := scope(r)
		if err != nil {
			return nil, err
		}
		if h.maxUpload > 0 && r.ContentLength > h.maxUpload+formOverhead {
			return nil, perr.WithField(perr.TooLargef("file exceeds %d bytes", h.maxUpload), "file")
		}
		if h.maxUpload > 0 {
			r.Body = stdhttp.MaxBytesReader(nil, r.Body, h.maxUpload+formOverhead)
		}
		if err := r.ParseMultipartForm(formMemory); err != nil {
			return nil, h.formErr(err)
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		raw, err := readFile(r)
		if err != nil {
			return nil, err
		}
		skip, err := formBool(r, "skip_duplicates")
		if err != nil {
			return nil, err
		}
		only, err := formBool(r, "validate_only")
		if err != nil {
			return nil, err
		}
		return h.svc.Import(r.Context(), domain.ImportJobRequest{
			Entity:         e,
			Raw:            raw,
			Scope:          sc,
			SkipDuplicates: skip,
			ValidateOnly:   only,
		})
	}
}

func (h *handlers) formErr(err error) error {
	var tooBig *stdhttp.MaxBytesError
	if errors.As(err, &tooBig) {
		return perr.WithField(perr.TooLargef("file exceeds %d bytes", h.maxUpload), "file")
	}
	return perr.WithField(perr.Validationf("expected a multipart form with a file part"), "file")
}

func readFile(r *stdhttp.Request) ([]byte, error) {
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, perr.WithField(perr.Validationf("file is required"), "file")
	}
	defer func() { _ = f.Close() }()
	if !csvPart(hdr) {
		return nil, perr.WithField(perr.Validationf("file must be a CSV"), "file")
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "could not read upload")
	}
	return raw, nil
}

// csvPart accepts a .csv name or a text type, browsers on windows label csv as ms-excel
func csvPart(hdr *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(hdr.Filename), ".csv") {
		return true
	}
	ct := strings.ToLower(hdr.Header.Get("Content-Type"))
	return strings.HasPrefix(ct, "text/") || strings.HasPrefix(ct, "application/vnd.ms-excel")
}

func formBool(r *stdhttp.Request, key string) (bool, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, perr.WithField(perr.Validationf("%s must be a boolean", key), key)
	}
	return b, nil
}

// swagger:route PATCH /bulk/{entity} Bulk bulkUpdate
// @Summary Apply one patch to many records
// @Tags Bulk
// @Accept json
// @Produce json
// @Param payload body UpdateInput true "Ids and updates"
// @Success 200 {object} domain.BulkMutationResult "ok"
// @Router /bulk/orders [patch]
// @Router /bulk/agents [patch]
func (h *handlers) updater(e domain.EntityType) func(*stdhttp.Request, UpdateInput) (any, error) {
	return func(r *stdhttp.Request, in UpdateInput) (any, error) {
		sc, err := scope(r)
		if err != nil {
			return nil, err
		}
		return h.svc.BulkUpdate(r.Context(), domain.BulkUpdateRequest{
			Entity:  e,
			IDs:     in.IDs,
			Updates: in.Updates,
			Scope:   sc,
		})
	}
}

// swagger:route POST /bulk/{entity}/delete Bulk bulkDelete
// @Summary Delete many records
// @Tags Bulk
// @Accept json
// @Produce json
// @Param entity path string true "Entity"
// @Param payload body DeleteInput true "Ids"
// @Success 200 {object} domain.BulkMutationResult "ok"
// @Router /bulk/{entity}/delete [post]
func (h *handlers) delete(r *stdhttp.Request, in DeleteInput) (any, error) {
	sc, err := scope(r)
	if err != nil {
		return nil, err
	}
	e, err := entityParam(r)
	if err != nil {
		return nil, err
	}
	return h.svc.BulkDelete(r.Context(), domain.BulkDeleteRequest{Entity: e, IDs: in.IDs, Scope: sc})
}

// swagger:route GET /bulk/{entity}/template Bulk bulkTemplate
// @Summary Download the CSV template
// @Tags Bulk
// @Produce text/csv
// @Param entity path string true "Entity"
// @Router /bulk/{entity}/template [get]
func (h *handlers) template(r *stdhttp.Request) (any, error) {
	e, err := entityParam(r)
	if err != nil {
		return nil, err
	}
	t, err := h.svc.Template(e)
	if err != nil {
		return nil, err
	}
	return httpkit.Attachment(t.Filename, t.ContentType, t.Content), nil
}

// swagger:route GET /bulk/{entity}/export Bulk bulkExport
// @Summary Export team records
// @Tags Bulk
// @Produce text/csv
// @Param entity path string true "Entity"
// @Param format query string false "csv or xlsx"
// @Router /bulk/{entity}/export [get]
func (h *handlers) export(r *stdhttp.Request) (any, error) {
	sc, err := scope(r)
	if err != nil {
		return nil, err
	}
	e, err := entityParam(r)
	if err != nil {
		return nil, err
	}
	f, err := domain.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Export(r.Context(), e, sc, f)
	if err != nil {
		return nil, err
	}
	return httpkit.Attachment(out.Filename, out.ContentType, out.Content), nil
}
