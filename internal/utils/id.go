package utils

import "github.com/google/uuid"

// GenerateID returns a random UUID used as request and report identifier.
func GenerateID() string {
	return uuid.New().String()
}
