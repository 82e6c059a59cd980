package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateItem checks an Item for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the item is valid.
func ValidateItem(i *Item) error {
	var ve ValidationError

	// Body: required and at most 1000 characters.
	body := strings.TrimSpace(i.Body)
	if body == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "body", Message: "is required"})
	} else if len([]rune(body)) > 1000 {
		ve.Errors = append(ve.Errors, FieldError{Field: "body", Message: "must be 1000 characters or fewer"})
	}

	// Priority: must be 0-4.
	if i.Priority < 0 || i.Priority > 4 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("must be between 0 and 4, got %d", i.Priority),
		})
	}

	// Status: must be a valid enum value (closed set).
	if !i.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", i.Status),
		})
	}

	// Status/IsDone consistency.
	if i.IsDone && i.Status == StatusOpen {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: "must not be open when is_done is set",
		})
	}
	if !i.IsDone && i.Status == StatusDone {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: "must not be done when is_done is unset",
		})
	}

	// Tags: no empty or duplicate entries.
	seen := make(map[string]bool, len(i.Tags))
	for _, tag := range i.Tags {
		if strings.TrimSpace(tag) == "" {
			ve.Errors = append(ve.Errors, FieldError{Field: "tags", Message: "must not contain empty tags"})
			break
		}
		if seen[tag] {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "tags",
				Message: fmt.Sprintf("duplicate tag %q", tag),
			})
			break
		}
		seen[tag] = true
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
