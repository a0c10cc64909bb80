package importer

import (
	"errors"
	"strings"

	"sheetfeed/internal/domain"
	"sheetfeed/internal/domain/models"
	"sheetfeed/internal/domain/services"
	"sheetfeed/internal/i18n"
)

// Error categories reported per failed item.
const (
	categoryPermission = "permission"
	categoryValidation = "validation"
)

// classifyItemError normalizes a store failure into the uniform ErrorEntry
// shape. Permission denial dominates every other classification; field-level
// validation failures are joined into one localized message, annotated with
// the offending input value when the item carries the field.
func classifyItemError(err error, fields models.Fields, msgs *i18n.Messages) services.ErrorEntry {
	var permErr *domain.PermissionError
	if errors.As(err, &permErr) || strings.Contains(err.Error(), domain.CodeForbidden) {
		return services.ErrorEntry{
			Message:  msgs.Get("permission_item"),
			Code:     domain.CodeForbidden,
			Category: categoryPermission,
		}
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) && len(valErr.Fields) > 0 {
		parts := make([]string, 0, len(valErr.Fields))
		for _, fieldErr := range valErr.Fields {
			parts = append(parts, describeFieldError(fieldErr, fields, msgs))
		}
		return services.ErrorEntry{
			Message:  strings.Join(parts, "; "),
			Code:     valErr.Code(),
			Category: categoryValidation,
		}
	}

	message := err.Error()
	if message == "" {
		message = msgs.Get("validation_error")
	}
	return services.ErrorEntry{
		Message:  message,
		Code:     domain.CodeUnknown,
		Category: categoryValidation,
	}
}

// describeFieldError renders one field-level failure: the field name plus a
// human-readable description resolved from the code table, falling back to
// the store-provided type string, then to a generic validation label.
func describeFieldError(fieldErr domain.FieldError, fields models.Fields, msgs *i18n.Messages) string {
	field := fieldErr.Field
	if field == "" {
		field = msgs.Get("unknown_field")
	}

	description := msgs.Get("code_" + strings.ToLower(fieldErr.Code))
	if description == "" {
		description = fieldErr.Type
	}
	if description == "" {
		description = msgs.Get("validation_error")
	}

	message := msgs.Format("field_error", map[string]string{
		"field":       field,
		"description": description,
	})
	if value, ok := fields[fieldErr.Field]; ok {
		message += msgs.Format("field_value", map[string]string{"value": value})
	}
	return message
}
