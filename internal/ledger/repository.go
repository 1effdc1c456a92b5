package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/courier/pkg/database"
	"github.com/JaimeStill/courier/pkg/pagination"
	"github.com/JaimeStill/courier/pkg/query"
	"github.com/JaimeStill/courier/pkg/repository"
)

// promoted names detail keys stored as columns rather than in log_details.
var promoted = []string{"thread_id", "source", "source_filename"}

type repo struct {
	db         *sql.DB
	driver     database.Driver
	projection *query.ProjectionMap
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a ledger repository implementing the System interface.
func New(
	db *sql.DB,
	driver database.Driver,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		driver:     driver,
		projection: projection(driver),
		logger:     logger.With("system", "ledger"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) NewThreadID() string {
	return uuid.NewString()
}

func (r *repo) Append(ctx context.Context, cmd AppendCommand) (*Entry, error) {
	if strings.TrimSpace(cmd.ThreadID) == "" {
		return nil, ErrInvalidThread
	}
	if strings.TrimSpace(cmd.AgentName) == "" {
		return nil, ErrInvalidEntry
	}

	details := make(map[string]any, len(cmd.Details))
	maps.Copy(details, cmd.Details)
	for _, k := range promoted {
		delete(details, k)
	}

	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode log details: %w", err)
	}

	var source *string
	if cmd.Source != "" {
		source = &cmd.Source
	}

	q := `
		INSERT INTO agent_logs(timestamp, agent_name, thread_id, source_filename, log_details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + entryColumns

	args := []any{r.now(), cmd.AgentName, cmd.ThreadID, source, string(data)}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		return repository.QueryOne(ctx, tx, q, args, scanEntry)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug(
		"ledger entry appended",
		"agent", e.AgentName,
		"thread_id", e.ThreadID,
		"status", e.Status(),
	)
	return &e, nil
}

func (r *repo) LogsForThread(ctx context.Context, threadID string) ([]Entry, error) {
	q := `SELECT ` + entryColumns + ` FROM agent_logs WHERE thread_id = $1 ORDER BY timestamp ASC, id ASC`

	entries, err := repository.QueryMany(ctx, r.db, q, []any{threadID}, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query thread logs: %w", err)
	}
	return entries, nil
}

func (r *repo) AllLogs(ctx context.Context) ([]Entry, error) {
	q := `SELECT ` + entryColumns + ` FROM agent_logs ORDER BY timestamp ASC, id ASC`

	entries, err := repository.QueryMany(ctx, r.db, q, nil, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	return entries, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(r.projection, defaultSort...).
		Dialect(dialect(r.driver)).
		WhereSearch(page.Search, "AgentName", "Source", "ThreadID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	entries, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}

	result := pagination.NewPageResult(entries, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) UpdateContext(ctx context.Context, threadID string, data map[string]any) (map[string]any, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, ErrInvalidThread
	}

	merged, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (map[string]any, error) {
		current, err := r.findContext(ctx, tx, threadID)
		if err != nil {
			return nil, err
		}

		maps.Copy(current.Data, data)

		encoded, err := json.Marshal(current.Data)
		if err != nil {
			return nil, fmt.Errorf("encode context: %w", err)
		}

		q := `
			INSERT INTO shared_context(thread_id, last_updated, context_data)
			VALUES ($1, $2, $3)
			ON CONFLICT (thread_id) DO UPDATE
			SET last_updated = EXCLUDED.last_updated, context_data = EXCLUDED.context_data`

		if _, err := tx.ExecContext(ctx, q, threadID, r.now(), string(encoded)); err != nil {
			return nil, err
		}
		return current.Data, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug("context updated", "thread_id", threadID, "keys", len(data))
	return merged, nil
}

func (r *repo) Context(ctx context.Context, threadID string) (map[string]any, error) {
	c, err := r.findContext(ctx, r.db, threadID)
	if err != nil {
		return nil, err
	}
	return c.Data, nil
}

func (r *repo) ContextRecord(ctx context.Context, threadID string) (*ContextRecord, error) {
	q := `SELECT thread_id, last_updated, context_data FROM shared_context WHERE thread_id = $1`

	c, err := repository.QueryOne(ctx, r.db, q, []any{threadID}, scanContext)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

// findContext returns the stored context, or an empty record when the
// thread has none yet.
func (r *repo) findContext(ctx context.Context, q repository.Querier, threadID string) (ContextRecord, error) {
	stmt := `SELECT thread_id, last_updated, context_data FROM shared_context WHERE thread_id = $1`

	c, err := repository.QueryOne(ctx, q, stmt, []any{threadID}, scanContext)
	if errors.Is(err, sql.ErrNoRows) {
		return ContextRecord{ThreadID: threadID, Data: make(map[string]any)}, nil
	}
	if err != nil {
		return ContextRecord{}, fmt.Errorf("query context: %w", err)
	}
	return c, nil
}
