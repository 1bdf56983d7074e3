package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action identifies what happened to an audited entity.
// The numeric values match the admin log action flags (addition, change, deletion).
type Action int

const (
	ActionCreate Action = 1
	ActionUpdate Action = 2
	ActionDelete Action = 3
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "CREATE"
	case ActionUpdate:
		return "UPDATE"
	case ActionDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Valid reports whether a is one of the known actions
func (a Action) Valid() bool {
	return a >= ActionCreate && a <= ActionDelete
}

// MarshalJSON renders the action by name
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts the action name
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	action, err := ParseAction(name)
	if err != nil {
		return err
	}
	*a = action
	return nil
}

// ParseAction converts an action name back into an Action
func ParseAction(s string) (Action, error) {
	switch s {
	case "CREATE":
		return ActionCreate, nil
	case "UPDATE":
		return ActionUpdate, nil
	case "DELETE":
		return ActionDelete, nil
	}
	return 0, fmt.Errorf("%w: unknown action %q", ErrValidation, s)
}

// Entity is anything whose mutations can be audited
type Entity interface {
	// AuditKind is a stable, human-readable name for the entity type
	AuditKind() string
	// AuditID is the primary key; zero means the entity was never persisted
	AuditID() int64
	// String is the display text recorded as the entity label
	String() string
}

// AuditRecord is a single immutable entry in the audit log
type AuditRecord struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	ActorID     int64     `json:"actor_id"`
	EntityKind  string    `json:"entity_kind"`
	EntityID    int64     `json:"entity_id"`
	EntityLabel string    `json:"entity_label"`
	Action      Action    `json:"action"`
	Message     string    `json:"message"`
}

// AuditFilter narrows down audit log queries. Zero values mean "any".
type AuditFilter struct {
	ActorID    int64
	EntityKind string
	EntityID   int64
	Action     Action
	Limit      int
}

// NewAuditRecord builds a record for entity with the action's message.
// payload is only used by updates.
func NewAuditRecord(actorID int64, action Action, entity Entity, payload string) *AuditRecord {
	return &AuditRecord{
		ActorID:     actorID,
		EntityKind:  entity.AuditKind(),
		EntityID:    entity.AuditID(),
		EntityLabel: entity.String(),
		Action:      action,
		Message:     AuditMessage(action, entity.AuditKind(), entity.String(), payload),
	}
}

// AuditMessage formats the change message for an action
func AuditMessage(action Action, kind, label, payload string) string {
	switch action {
	case ActionCreate:
		return fmt.Sprintf(`Added %s "%s".`, kind, label)
	case ActionUpdate:
		// TODO: list only the changed fields once forms report a diff
		return fmt.Sprintf(`Changed %s for %s "%s".`, payload, kind, label)
	case ActionDelete:
		return fmt.Sprintf(`Deleted %s "%s".`, kind, label)
	}
	return ""
}
