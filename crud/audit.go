package crud

import (
	"context"

	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/services"
	"github.com/blogem/crud-audit/userctx"
)

// audited decorates a Mutator with audit logging. The wrapped mutation runs
// unchanged; its result is returned as-is, together with the audit error if
// the record could not be written.
type audited[T models.Entity] struct {
	next     Mutator[T]
	recorder services.AuditRecorder
}

// WithAudit wraps next so that successful creates, updates and deletes are
// recorded by recorder, crediting the actor found on the context.
func WithAudit[T models.Entity](next Mutator[T], recorder services.AuditRecorder) Mutator[T] {
	return &audited[T]{next: next, recorder: recorder}
}

func (a *audited[T]) Retrieve(ctx context.Context, id int64) (T, error) {
	return a.next.Retrieve(ctx, id)
}

func (a *audited[T]) Create(ctx context.Context, payload Payload) (T, int, error) {
	entity, status, err := a.next.Create(ctx, payload)
	if err != nil {
		return entity, status, err
	}

	actorID, _ := userctx.GetActorID(ctx)
	if _, auditErr := a.recorder.RecordCreate(ctx, actorID, entity); auditErr != nil {
		return entity, status, auditErr
	}
	return entity, status, nil
}

func (a *audited[T]) Update(ctx context.Context, id int64, payload Payload) (T, int, error) {
	// The label is taken from the entity as it was before the change.
	snapshot, lookupErr := a.next.Retrieve(ctx, id)

	entity, status, err := a.next.Update(ctx, id, payload)
	if lookupErr != nil {
		return entity, status, err
	}

	actorID, _ := userctx.GetActorID(ctx)
	if _, auditErr := a.recorder.RecordUpdate(ctx, actorID, snapshot, payload.String(), status); auditErr != nil {
		return entity, status, auditErr
	}
	return entity, status, err
}

func (a *audited[T]) Destroy(ctx context.Context, id int64) (int, error) {
	snapshot, lookupErr := a.next.Retrieve(ctx, id)

	status, err := a.next.Destroy(ctx, id)
	if lookupErr != nil {
		return status, err
	}

	actorID, _ := userctx.GetActorID(ctx)
	if _, auditErr := a.recorder.RecordDelete(ctx, actorID, snapshot, status); auditErr != nil {
		return status, auditErr
	}
	return status, err
}
