package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/crud-audit/crud"
	"github.com/blogem/crud-audit/models"
)

// ResourceController serves JSON CRUD endpoints for one entity type. Each
// mutation runs in its own transaction together with its audit record.
type ResourceController[T models.Entity] struct {
	mutator crud.Mutator[T]
	list    func(ctx context.Context) ([]T, error)
	inTx    crud.TxRunner
}

// NewResourceController creates a controller over mutator
func NewResourceController[T models.Entity](mutator crud.Mutator[T], list func(ctx context.Context) ([]T, error), inTx crud.TxRunner) *ResourceController[T] {
	return &ResourceController[T]{mutator: mutator, list: list, inTx: inTx}
}

// Routes mounts the resource handlers on r
func (c *ResourceController[T]) Routes(r chi.Router) {
	r.Get("/", c.Index)
	r.Post("/", c.Create)
	r.Get("/{id}", c.Show)
	r.Put("/{id}", c.Update)
	r.Delete("/{id}", c.Delete)
}

// Index handles GET /
func (c *ResourceController[T]) Index(w http.ResponseWriter, r *http.Request) {
	items, err := c.list(r.Context())
	if err != nil {
		writeError(w, r, crud.StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Show handles GET /{id}
func (c *ResourceController[T]) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := c.mutator.Retrieve(r.Context(), id)
	if err != nil {
		writeError(w, r, crud.StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /
func (c *ResourceController[T]) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := crud.PayloadFromRequest(r)
	if err != nil {
		writeError(w, r, crud.StatusFor(err), err)
		return
	}

	var (
		item   T
		status int
	)
	err = c.inTx(r.Context(), func(ctx context.Context) error {
		var err error
		item, status, err = c.mutator.Create(ctx, payload)
		return err
	})
	if err != nil {
		writeError(w, r, failureStatus(status, err), err)
		return
	}
	writeJSON(w, status, item)
}

// Update handles PUT /{id}
func (c *ResourceController[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	payload, err := crud.PayloadFromRequest(r)
	if err != nil {
		writeError(w, r, crud.StatusFor(err), err)
		return
	}

	var (
		item   T
		status int
	)
	err = c.inTx(r.Context(), func(ctx context.Context) error {
		var err error
		item, status, err = c.mutator.Update(ctx, id, payload)
		return err
	})
	if err != nil {
		writeError(w, r, failureStatus(status, err), err)
		return
	}
	writeJSON(w, status, item)
}

// Delete handles DELETE /{id}
func (c *ResourceController[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var status int
	err := c.inTx(r.Context(), func(ctx context.Context) error {
		var err error
		status, err = c.mutator.Destroy(ctx, id)
		return err
	})
	if err != nil {
		writeError(w, r, failureStatus(status, err), err)
		return
	}
	w.WriteHeader(status)
}

// failureStatus keeps the mutation's own error status; an error reported
// alongside a success status means the audit write failed.
func failureStatus(status int, err error) int {
	if status < http.StatusBadRequest {
		return crud.StatusFor(err)
	}
	return status
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
