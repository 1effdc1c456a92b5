package ledger

import (
	"context"

	"github.com/JaimeStill/courier/pkg/pagination"
)

// System defines the public contract for ledger operations.
type System interface {
	Handler() *Handler

	// NewThreadID mints a fresh thread identifier.
	NewThreadID() string

	Append(ctx context.Context, cmd AppendCommand) (*Entry, error)
	LogsForThread(ctx context.Context, threadID string) ([]Entry, error)
	AllLogs(ctx context.Context) ([]Entry, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entry], error)

	// UpdateContext shallow-merges data into the thread's context, creating
	// it on first use, and returns the merged map.
	UpdateContext(ctx context.Context, threadID string, data map[string]any) (map[string]any, error)
	// Context returns the thread's context map, empty when none exists.
	Context(ctx context.Context, threadID string) (map[string]any, error)
	// ContextRecord returns the full context row. Returns ErrNotFound when absent.
	ContextRecord(ctx context.Context, threadID string) (*ContextRecord, error)
}
