package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plantops/skilltrack/pkg/database"
	"github.com/plantops/skilltrack/pkg/models"
)

// AuditLogRepository provides append and query access for the audit log.
// There is intentionally no update or delete method: the log is a pure
// history.
type AuditLogRepository interface {
	// Create appends a new audit log entry.
	Create(ctx context.Context, entry *models.AuditLogEntry) error

	// Query returns entries matching the filter, newest first.
	Query(ctx context.Context, filter models.AuditLogFilter) ([]*models.AuditLogEntry, error)
}

type auditLogRepository struct {
	q database.Querier
}

// NewAuditLogRepository creates a new AuditLogRepository.
func NewAuditLogRepository(db *database.DB) AuditLogRepository {
	return &auditLogRepository{q: db.Pool}
}

var _ AuditLogRepository = (*auditLogRepository)(nil)

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO audit_log (id, actor_id, actor_name, action, module, description, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.ActorID, entry.ActorName, entry.Action,
		entry.Module, entry.Description, entry.IP, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

func (r *auditLogRepository) Query(ctx context.Context, filter models.AuditLogFilter) ([]*models.AuditLogEntry, error) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Module != "" {
		add("module = $%d", filter.Module)
	}
	if filter.ActorID != 0 {
		add("actor_id = $%d", filter.ActorID)
	}
	if filter.Action != "" {
		add("action = $%d", filter.Action)
	}
	if !filter.From.IsZero() {
		add("created_at >= $%d", filter.From)
	}
	if !filter.Until.IsZero() {
		add("created_at <= $%d", filter.Until)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(action ILIKE $%d OR module ILIKE $%d OR actor_name ILIKE $%d OR description ILIKE $%d OR ip ILIKE $%d)",
			n, n, n, n, n))
	}

	query := `SELECT id, actor_id, actor_name, action, module, description, ip, created_at FROM audit_log`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		entry, err := scanAuditLogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanAuditLogEntry(row pgx.Row) (*models.AuditLogEntry, error) {
	var e models.AuditLogEntry
	err := row.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.Action, &e.Module, &e.Description, &e.IP, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
	}
	return &e, nil
}
