// Package domain holds the bulk operation types, entity schemas and ports
package domain

import (
	"strings"

	"dialdesk/internal/core/schema"
	perr "dialdesk/internal/platform/errors"
)

// EntityType names a team-owned table the bulk surface can touch
type EntityType string

// Entity types
const (
	Contact  EntityType = "contact"
	Product  EntityType = "product"
	Customer EntityType = "customer"
	Order    EntityType = "order"
	Agent    EntityType = "agent"
)

// Entities lists every entity type in a stable order
var Entities = []EntityType{Contact, Product, Customer, Order, Agent}

// ParseEntity accepts the singular or plural form, case-insensitive
func ParseEntity(s string) (EntityType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range Entities {
		if s == string(e) || s == e.Plural() {
			return e, nil
		}
	}
	return "", perr.WithField(perr.NotFoundf("unknown entity %q", s), "entity")
}

// Plural is the table and route name
func (e EntityType) Plural() string { return string(e) + "s" }

// Importable reports whether CSV import is offered
func (e EntityType) Importable() bool {
	return e == Contact || e == Product || e == Customer
}

// Updatable reports whether bulk update by id is offered
func (e EntityType) Updatable() bool { return e == Order || e == Agent }

// Deletable reports whether bulk delete by id is offered
func (e EntityType) Deletable() bool {
	for _, x := range Entities {
		if e == x {
			return true
		}
	}
	return false
}

// Scope restricts an operation to one team, UserID is the actor
type Scope struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

// RowStatus is the fate of one imported row
type RowStatus string

// Row statuses
const (
	StatusAccepted RowStatus = "accepted"
	StatusSkipped  RowStatus = "skipped"
	StatusRejected RowStatus = "rejected"
)

// ReasonDuplicate marks rows skipped by the duplicate filter
const ReasonDuplicate = "duplicate"

// FieldError reports one failing field of a row
type FieldError = schema.FieldError

// ImportJobRequest is one uploaded file plus its options
type ImportJobRequest struct {
	Entity         EntityType
	Raw            []byte
	Scope          Scope
	SkipDuplicates bool
	ValidateOnly   bool
}

// RowOutcome is the result for one data row
type RowOutcome struct {
	Row      int            `json:"row"`
	Line     int            `json:"line"`
	Status   RowStatus      `json:"status"`
	RecordID string         `json:"record_id,omitempty"`
	Record   map[string]any `json:"record,omitempty"`
	Errors   []FieldError   `json:"errors,omitempty"`
	Reason   string         `json:"reason,omitempty"`
}

// ImportResult aggregates row outcomes in input order
type ImportResult struct {
	Entity  EntityType   `json:"entity"`
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	DryRun  bool         `json:"dry_run"`
	Details []RowOutcome `json:"details"`
}

// Add appends o and bumps the matching counter
func (r *ImportResult) Add(o RowOutcome) {
	switch o.Status {
	case StatusAccepted:
		r.Success++
	case StatusSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
	r.Total++
	r.Details = append(r.Details, o)
}

// BulkUpdateRequest applies one patch to every id
type BulkUpdateRequest struct {
	Entity  EntityType
	IDs     []string
	Updates map[string]any
	Scope   Scope
}

// BulkDeleteRequest removes every id
type BulkDeleteRequest struct {
	Entity EntityType
	IDs    []string
	Scope  Scope
}

// BulkMutationResult aggregates per-id outcomes
type BulkMutationResult struct {
	Entity    EntityType        `json:"entity"`
	Requested int               `json:"requested"`
	Success   int               `json:"success"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors"`
}

// Fail records a failed id
func (r *BulkMutationResult) Fail(id, msg string) {
	if r.Errors == nil {
		r.Errors = map[string]string{}
	}
	r.Errors[id] = msg
	r.Failed++
}

// MsgNotFound is the per-id message for ids the team does not own
const MsgNotFound = "not found"

// Template is a downloadable CSV file
type Template struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportFormat selects the export encoding
type ExportFormat string

// Export formats
const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to csv when s is blank
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", perr.WithField(perr.Validationf("format must be csv or xlsx"), "format")
}

// ExportFile is an encoded export
type ExportFile = Template
