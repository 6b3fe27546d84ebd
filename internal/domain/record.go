package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record carries the identity and audit fields shared by every catalog
// entity and pick event. Identity is immutable after construction.
type Record struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewRecord creates a Record with a generated ID and current timestamps.
func NewRecord() Record {
	now := time.Now().UTC()
	return Record{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the modification timestamp.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now().UTC()
}
