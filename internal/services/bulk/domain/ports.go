package domain

import (
	"context"
	"time"

	"dialdesk/internal/core/schema"
)

// ServicePort is consumed by handlers, the CLI and other modules
type ServicePort interface {
	ImportContacts(ctx context.Context, raw []byte, sc Scope, opt ImportOptions) (ImportResult, error)
	ImportProducts(ctx context.Context, raw []byte, sc Scope, opt ImportOptions) (ImportResult, error)
	ImportCustomers(ctx context.Context, raw []byte, sc Scope, opt ImportOptions) (ImportResult, error)
	Import(ctx context.Context, req ImportJobRequest) (ImportResult, error)

	BulkUpdateOrders(ctx context.Context, ids []string, updates map[string]any, sc Scope) (BulkMutationResult, error)
	BulkUpdateAgents(ctx context.Context, ids []string, updates map[string]any, sc Scope) (BulkMutationResult, error)
	BulkUpdate(ctx context.Context, req BulkUpdateRequest) (BulkMutationResult, error)
	BulkDelete(ctx context.Context, req BulkDeleteRequest) (BulkMutationResult, error)

	Template(e EntityType) (Template, error)
	Export(ctx context.Context, e EntityType, sc Scope, f ExportFormat) (ExportFile, error)
}

// ImportOptions are the per-request switches of an import
type ImportOptions struct {
	SkipDuplicates bool
	ValidateOnly   bool
}

// Gateway is the team-scoped row store the orchestrators drive
// row-level failures carry perr codes DuplicateKey, Conflict, Validation or InvalidArgument
type Gateway interface {
	Create(ctx context.Context, e EntityType, rec schema.Record, sc Scope) (string, error)
	FindByKey(ctx context.Context, e EntityType, key Key, teamID string) (string, bool, error)
	OwnedIDs(ctx context.Context, e EntityType, ids []string, teamID string) (map[string]bool, error)
	UpdateByID(ctx context.Context, e EntityType, id string, patch schema.Record, teamID string) error
	DeleteByID(ctx context.Context, e EntityType, id, teamID string) error
	List(ctx context.Context, e EntityType, teamID string, columns []string, limit int) ([][]string, error)
}

// Run summarizes one bulk call for the audit trail
type Run struct {
	ID        string
	Op        string
	Entity    EntityType
	TeamID    string
	UserID    string
	Total     int
	Success   int
	Failed    int
	Skipped   int
	StartedAt time.Time
	Elapsed   time.Duration
}

// Run operations
const (
	OpImport = "import"
	OpUpdate = "update"
	OpDelete = "delete"
)

// AuditSink persists run summaries, failures never fail the request
type AuditSink interface {
	Record(ctx context.Context, run Run) error
}
