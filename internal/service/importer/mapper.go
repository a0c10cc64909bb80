package importer

import (
	"log/slog"
	"strconv"
	"strings"

	"sheetfeed/internal/domain/models"
)

// mapRow converts one raw spreadsheet row into a candidate record under the
// configured column mapping. Columns mapped to an empty field name are
// ignored; cell values that reduce to an empty string are omitted rather than
// stored. sourceRow is the 1-based row number in the original file, header
// included, carried alongside the fields for reporting only.
func mapRow(row []string, sourceRow int, cfg *jobConfig, logger *slog.Logger) models.Candidate {
	fields := make(models.Fields)

	for columnID, fieldName := range cfg.Mapping {
		if fieldName == "" {
			continue
		}

		value := cellValue(row, columnID)

		if cfg.FieldTypes[columnID] == "date" && cfg.DateFormats[columnID] != "" && value != "" {
			transformed := transformDate(value, cfg.DateFormats[columnID])
			if transformed != value {
				logger.Debug("date transformed",
					"row", sourceRow,
					"column", columnID,
					"from", value,
					"to", transformed,
				)
			}
			value = transformed
		}

		if transforms := cfg.Transformations[columnID]; len(transforms) > 0 && value != "" {
			value = applyTransformations(value, transforms)
		} else {
			// Default behavior without configured transformations.
			value = strings.TrimSpace(value)
		}

		if value != "" {
			fields[fieldName] = value
		}
	}

	return models.Candidate{Fields: fields, SourceRow: sourceRow}
}

// cellValue reads the raw cell for a column identifier; identifiers are
// stringified 0-based column indices. Missing or out-of-range columns are
// treated as absent.
func cellValue(row []string, columnID string) string {
	index, err := strconv.Atoi(columnID)
	if err != nil || index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
