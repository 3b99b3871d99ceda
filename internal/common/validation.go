package common

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// ValidateUUID parses an id string, naming the field in the error.
func ValidateUUID(idStr, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(idStr))
	if err != nil {
		return uuid.Nil, &ValidationError{Field: field, Message: "must be a valid UUID"}
	}
	return id, nil
}

// ValidatePositiveInteger enforces 0 < value <= max.
func ValidatePositiveInteger(value int, field string, max int) error {
	if value <= 0 {
		return &ValidationError{Field: field, Message: "must be a positive integer"}
	}
	if value > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d", max)}
	}
	return nil
}

// ValidatePositiveFloat enforces 0 < value <= max.
func ValidatePositiveFloat(value float64, field string, max float64) error {
	if value <= 0 {
		return &ValidationError{Field: field, Message: "must be a positive number"}
	}
	if value > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %.2f", max)}
	}
	return nil
}

func ValidateRequiredString(value, field string, maxLen int) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if len(trimmed) > maxLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", maxLen)}
	}
	return nil
}

func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}
