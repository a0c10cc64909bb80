package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"sheetfeed/internal/domain"
)

// translateError reduces a pgx failure to the domain's store error taxonomy.
// SQLSTATE classes that correspond to per-field validation become a
// ValidationError; privilege failures become a PermissionError; everything
// else passes through untouched for the job-level handler.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "42501": // insufficient_privilege
		return &domain.PermissionError{Message: pgErr.Message}
	case "23505": // unique_violation
		return fieldError(domain.CodeRecordNotUnique, pgErr)
	case "22001": // string_data_right_truncation
		return fieldError(domain.CodeValueTooLong, pgErr)
	case "23502": // not_null_violation
		return fieldError(domain.CodeContainsNullValues, pgErr)
	case "22003", "23514": // numeric_value_out_of_range, check_violation
		return fieldError(domain.CodeValueOutOfRange, pgErr)
	case "42703": // undefined_column
		return fieldError(domain.CodeFieldInvalid, pgErr)
	case "22P02", "22007", "22008": // bad text/datetime representation
		return fieldError(domain.CodeInvalidPayload, pgErr)
	case "23503": // foreign_key_violation
		return fieldError(domain.CodeFailedValidation, pgErr)
	}

	return err
}

func fieldError(code string, pgErr *pgconn.PgError) error {
	return &domain.ValidationError{
		Fields: []domain.FieldError{{
			Field:   pgErr.ColumnName,
			Code:    code,
			Type:    "validation",
			Message: pgErr.Message,
		}},
	}
}
