package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/blogem/crud-audit/crud"
	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/services"
)

const maxAuditLimit = 500

// AuditController exposes the audit log read-only
type AuditController struct {
	services *services.Services
}

// NewAuditController creates a new audit controller
func NewAuditController(services *services.Services) *AuditController {
	return &AuditController{services: services}
}

// Index handles GET /api/audit
func (c *AuditController) Index(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	records, err := c.services.Audit.History(r.Context(), filter)
	if err != nil {
		writeError(w, r, crud.StatusFor(err), err)
		return
	}
	if records == nil {
		records = []models.AuditRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// parseAuditFilter reads kind, entity_id, actor_id, action and limit
func parseAuditFilter(r *http.Request) (models.AuditFilter, error) {
	q := r.URL.Query()
	filter := models.AuditFilter{EntityKind: q.Get("kind")}

	ints := []struct {
		name string
		dest *int64
	}{
		{"entity_id", &filter.EntityID},
		{"actor_id", &filter.ActorID},
	}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n <= 0 {
				return filter, fmt.Errorf("invalid %s: %q", p.name, v)
			}
			*p.dest = n
		}
	}

	if v := q.Get("action"); v != "" {
		action, err := models.ParseAction(v)
		if err != nil {
			return filter, err
		}
		filter.Action = action
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return filter, fmt.Errorf("invalid limit: %q", v)
		}
		filter.Limit = min(limit, maxAuditLimit)
	}

	return filter, nil
}
