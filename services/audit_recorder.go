package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/repositories"
)

// Statuses the CRUD layer reports for successful mutations
const (
	StatusUpdated = http.StatusOK
	StatusDeleted = http.StatusNoContent
)

// AuditRecorder appends one audit record per successful mutation. Each
// method returns false without error when the mutation did not succeed.
type AuditRecorder interface {
	RecordCreate(ctx context.Context, actorID int64, created models.Entity) (bool, error)
	RecordUpdate(ctx context.Context, actorID int64, entity models.Entity, payload string, status int) (bool, error)
	RecordDelete(ctx context.Context, actorID int64, snapshot models.Entity, status int) (bool, error)
	History(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error)
}

type auditRecorder struct {
	auditRepo repositories.AuditRepository
	metrics   *AuditMetrics
	logger    *slog.Logger
}

// NewAuditRecorder creates a recorder writing to auditRepo
func NewAuditRecorder(auditRepo repositories.AuditRepository, metrics *AuditMetrics, logger *slog.Logger) AuditRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditRecorder{
		auditRepo: auditRepo,
		metrics:   metrics,
		logger:    logger.With("component", "audit"),
	}
}

// RecordCreate logs an addition. An entity without an ID was never
// persisted and is not logged.
func (r *auditRecorder) RecordCreate(ctx context.Context, actorID int64, created models.Entity) (bool, error) {
	if !persisted(created) {
		return r.skip(ctx, models.ActionCreate, "reason", "entity has no id")
	}
	return r.append(ctx, models.NewAuditRecord(actorID, models.ActionCreate, created, ""))
}

// RecordUpdate logs a change, embedding the request payload in the message
func (r *auditRecorder) RecordUpdate(ctx context.Context, actorID int64, entity models.Entity, payload string, status int) (bool, error) {
	if status != StatusUpdated || !persisted(entity) {
		return r.skip(ctx, models.ActionUpdate, "status", status)
	}
	return r.append(ctx, models.NewAuditRecord(actorID, models.ActionUpdate, entity, payload))
}

// RecordDelete logs a deletion. snapshot must be taken before the delete
// runs; the entity cannot be read back afterwards.
func (r *auditRecorder) RecordDelete(ctx context.Context, actorID int64, snapshot models.Entity, status int) (bool, error) {
	if status != StatusDeleted || !persisted(snapshot) {
		return r.skip(ctx, models.ActionDelete, "status", status)
	}
	return r.append(ctx, models.NewAuditRecord(actorID, models.ActionDelete, snapshot, ""))
}

// persisted reports whether e refers to a stored entity. Entity
// implementations must return 0 from AuditID on a nil receiver.
func persisted(e models.Entity) bool {
	return e != nil && e.AuditID() != 0
}

// History returns recorded entries matching filter, newest first
func (r *auditRecorder) History(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error) {
	return r.auditRepo.List(ctx, filter)
}

func (r *auditRecorder) append(ctx context.Context, record *models.AuditRecord) (bool, error) {
	if err := r.auditRepo.Append(ctx, record); err != nil {
		r.metrics.incWriteFailures()
		r.logger.ErrorContext(ctx, "audit write failed",
			"action", record.Action,
			"entity_kind", record.EntityKind,
			"entity_id", record.EntityID,
			"error", err)
		return false, fmt.Errorf("failed to record %s of %s %d: %w",
			record.Action, record.EntityKind, record.EntityID, err)
	}

	r.metrics.incRecorded(record.Action)
	r.logger.DebugContext(ctx, "audit record written",
		"id", record.ID,
		"actor_id", record.ActorID,
		"action", record.Action,
		"message", record.Message)
	return true, nil
}

func (r *auditRecorder) skip(ctx context.Context, action models.Action, reason ...any) (bool, error) {
	r.metrics.incSkipped(action)
	r.logger.DebugContext(ctx, "mutation not audited", append([]any{"action", action}, reason...)...)
	return false, nil
}
