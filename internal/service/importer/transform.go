package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Supported date formats for typed columns.
const (
	FormatExcelSerial = "excel-serial"
	FormatDayFirst    = "dd/mm/yyyy"
	FormatMonthFirst  = "mm/dd/yyyy"
	FormatISO         = "yyyy-mm-dd"
)

// Text transformations applied per column, in configured order.
const (
	TransformTrim       = "trim"
	TransformUppercase  = "uppercase"
	TransformLowercase  = "lowercase"
	TransformCapitalize = "capitalize"
)

// Spreadsheet serials count days from the day before 1900-01-01, with the
// conventional off-by-two correction: serial 1 is 1899-12-31.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const millisPerDay = 86400000

var dateSeparatorRe = regexp.MustCompile(`[/\-.]`)

// transformDate normalizes a date cell to YYYY-MM-DD according to the
// declared source format. It never fails: any value it cannot interpret is
// returned unchanged, because a malformed date must not kill the row.
func transformDate(value, format string) string {
	if value == "" || format == "" {
		return value
	}

	switch format {
	case FormatExcelSerial, "excel":
		serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return value
		}
		date := excelEpoch.Add(time.Duration(serial*millisPerDay) * time.Millisecond)
		return fmt.Sprintf("%04d-%02d-%02d", date.Year(), date.Month(), date.Day())

	case FormatDayFirst:
		parts := dateSeparatorRe.Split(strings.TrimSpace(value), -1)
		if len(parts) != 3 {
			return value
		}
		return parts[2] + "-" + padDatePart(parts[1]) + "-" + padDatePart(parts[0])

	case FormatMonthFirst:
		parts := dateSeparatorRe.Split(strings.TrimSpace(value), -1)
		if len(parts) != 3 {
			return value
		}
		return parts[2] + "-" + padDatePart(parts[0]) + "-" + padDatePart(parts[1])

	case FormatISO:
		// Already canonical, trust the caller.
		return strings.TrimSpace(value)
	}

	return value
}

func padDatePart(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// applyTransformations runs the configured text transformations in order.
// Order matters: ["uppercase","capitalize"] is not ["capitalize","uppercase"].
// Unknown transformation names are no-ops.
func applyTransformations(value string, transformations []string) string {
	if value == "" || len(transformations) == 0 {
		return value
	}

	result := value
	for _, transform := range transformations {
		switch transform {
		case TransformTrim:
			result = strings.TrimSpace(result)
		case TransformUppercase:
			result = strings.ToUpper(result)
		case TransformLowercase:
			result = strings.ToLower(result)
		case TransformCapitalize:
			result = capitalize(result)
		}
	}
	return result
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(first)) + strings.ToLower(s[size:])
}
