// Package types provides common types used across folio.
package types

import "time"

// Entity carries the record timestamps shared by clients and documents.
// CreatedAt is set once; UpdatedAt moves on every successful update.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates a new Entity with current timestamps.
func NewEntity() Entity {
	return NewEntityAt(time.Now())
}

// NewEntityAt creates a new Entity stamped with the given instant in UTC.
func NewEntityAt(now time.Time) Entity {
	now = now.UTC()
	return Entity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp to now.
func (e *Entity) Touch() {
	e.TouchAt(time.Now())
}

// TouchAt sets UpdatedAt to the given instant in UTC.
func (e *Entity) TouchAt(now time.Time) {
	e.UpdatedAt = now.UTC()
}

// Age returns how long ago the entity was created.
func (e Entity) Age() time.Duration {
	return time.Since(e.CreatedAt)
}
