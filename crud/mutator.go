package crud

import (
	"context"
	"errors"
	"net/http"

	"github.com/blogem/crud-audit/models"
)

// Mutator performs the create/update/delete lifecycle of one entity type.
// Create and Update report the HTTP status of the outcome; Destroy reports
// only the status because the entity is gone afterwards.
type Mutator[T models.Entity] interface {
	Retrieve(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, payload Payload) (T, int, error)
	Update(ctx context.Context, id int64, payload Payload) (T, int, error)
	Destroy(ctx context.Context, id int64) (int, error)
}

// TxRunner runs fn inside one unit of work, committing only if fn returns nil
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// ViewSet is the default Mutator: it decodes the payload into a form F and
// calls the service functions, mapping their errors to statuses.
type ViewSet[T models.Entity, F any] struct {
	Get    func(ctx context.Context, id int64) (T, error)
	Insert func(ctx context.Context, form *F) (T, error)
	Change func(ctx context.Context, id int64, form *F) (T, error)
	Remove func(ctx context.Context, id int64) error
}

// Retrieve loads an entity by id
func (v *ViewSet[T, F]) Retrieve(ctx context.Context, id int64) (T, error) {
	return v.Get(ctx, id)
}

// Create decodes payload and inserts a new entity
func (v *ViewSet[T, F]) Create(ctx context.Context, payload Payload) (T, int, error) {
	var zero T

	form := new(F)
	if err := payload.Decode(form); err != nil {
		return zero, http.StatusBadRequest, err
	}

	entity, err := v.Insert(ctx, form)
	if err != nil {
		return zero, StatusFor(err), err
	}
	return entity, http.StatusCreated, nil
}

// Update decodes payload and applies it to the entity with id
func (v *ViewSet[T, F]) Update(ctx context.Context, id int64, payload Payload) (T, int, error) {
	var zero T

	form := new(F)
	if err := payload.Decode(form); err != nil {
		return zero, http.StatusBadRequest, err
	}

	entity, err := v.Change(ctx, id, form)
	if err != nil {
		return zero, StatusFor(err), err
	}
	return entity, http.StatusOK, nil
}

// Destroy deletes the entity with id
func (v *ViewSet[T, F]) Destroy(ctx context.Context, id int64) (int, error) {
	if err := v.Remove(ctx, id); err != nil {
		return StatusFor(err), err
	}
	return http.StatusNoContent, nil
}

// StatusFor maps an error to the HTTP status reported for it
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrMissingActor):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
