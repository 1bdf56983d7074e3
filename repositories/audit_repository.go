package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/blogem/crud-audit/database"
	"github.com/blogem/crud-audit/models"
)

const defaultAuditLimit = 100

// AuditRepository handles audit log persistence. It is append-only: there
// is no way to change or remove a record once written.
type AuditRepository interface {
	Append(ctx context.Context, record *models.AuditRecord) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error)
}

type sqliteAuditRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db, now: time.Now}
}

// Append inserts a new audit record, assigning its ID and timestamp.
// It joins the transaction carried by ctx, if any.
func (r *sqliteAuditRepository) Append(ctx context.Context, record *models.AuditRecord) error {
	if record.ActorID == 0 {
		return models.ErrMissingActor
	}
	if !record.Action.Valid() {
		return fmt.Errorf("%w: invalid audit action %d", models.ErrValidation, int(record.Action))
	}

	query := `
		INSERT INTO audit_log (timestamp, actor_id, entity_kind, entity_id, entity_label, action, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := r.now().UTC()
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		timestamp,
		record.ActorID,
		record.EntityKind,
		record.EntityID,
		record.EntityLabel,
		int(record.Action),
		record.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	record.ID = id
	record.Timestamp = timestamp
	return nil
}

// List returns audit records matching filter, newest first
func (r *sqliteAuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error) {
	var (
		where []string
		args  []any
	)
	if filter.ActorID != 0 {
		where = append(where, "actor_id = ?")
		args = append(args, filter.ActorID)
	}
	if filter.EntityKind != "" {
		where = append(where, "entity_kind = ?")
		args = append(args, filter.EntityKind)
	}
	if filter.EntityID != 0 {
		where = append(where, "entity_id = ?")
		args = append(args, filter.EntityID)
	}
	if filter.Action != 0 {
		where = append(where, "action = ?")
		args = append(args, int(filter.Action))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	query := `
		SELECT id, timestamp, actor_id, entity_kind, entity_id, entity_label, action, message
		FROM audit_log
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var records []models.AuditRecord
	for rows.Next() {
		var record models.AuditRecord
		var action int

		err := rows.Scan(
			&record.ID,
			&record.Timestamp,
			&record.ActorID,
			&record.EntityKind,
			&record.EntityID,
			&record.EntityLabel,
			&action,
			&record.Message,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}

		record.Action = models.Action(action)
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}

	return records, nil
}
