package utils

import "github.com/google/uuid"

// NewID returns a random UUID string used for every stored entity.
func NewID() string {
	return uuid.New().String()
}
