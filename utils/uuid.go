package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new request identifier
func GenerateID() string {
	return uuid.New().String()
}
