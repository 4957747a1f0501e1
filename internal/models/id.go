package models

import "github.com/google/uuid"

// NewID returns a time-ordered identifier, so sorting IDs lexically follows creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
