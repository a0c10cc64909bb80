package importer

import (
	"io"
	"log/slog"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(mapping map[string]string) *jobConfig {
	return &jobConfig{
		Collection:      "products",
		Mapping:         mapping,
		FieldTypes:      map[string]string{},
		DateFormats:     map[string]string{},
		Transformations: map[string][]string{},
		BatchSize:       100,
	}
}

func TestMapRowBasic(t *testing.T) {
	cfg := testConfig(map[string]string{"0": "name", "1": "email"})

	candidate := mapRow([]string{"Ada", "ada@example.com"}, 2, cfg, testLogger)

	if candidate.SourceRow != 2 {
		t.Errorf("SourceRow = %d, want 2", candidate.SourceRow)
	}
	if len(candidate.Fields) != 2 {
		t.Fatalf("fields = %v, want 2 entries", candidate.Fields)
	}
	if candidate.Fields["name"] != "Ada" || candidate.Fields["email"] != "ada@example.com" {
		t.Errorf("fields = %v", candidate.Fields)
	}
}

func TestMapRowIgnoresUnmappedColumns(t *testing.T) {
	cfg := testConfig(map[string]string{"0": "name", "1": ""})

	candidate := mapRow([]string{"Ada", "ignored"}, 1, cfg, testLogger)

	if len(candidate.Fields) != 1 {
		t.Errorf("fields = %v, want only name", candidate.Fields)
	}
}

func TestMapRowOmitsEmptyValues(t *testing.T) {
	cfg := testConfig(map[string]string{"0": "name", "1": "email", "2": "phone"})

	// Column 1 is whitespace only, column 2 is past the end of the row.
	candidate := mapRow([]string{"Ada", "   "}, 1, cfg, testLogger)

	if _, ok := candidate.Fields["email"]; ok {
		t.Error("whitespace-only cell must be omitted after default trim")
	}
	if _, ok := candidate.Fields["phone"]; ok {
		t.Error("missing cell must be omitted")
	}
}

func TestMapRowDefaultTrim(t *testing.T) {
	cfg := testConfig(map[string]string{"0": "name"})

	candidate := mapRow([]string{"  Ada  "}, 1, cfg, testLogger)

	if candidate.Fields["name"] != "Ada" {
		t.Errorf("name = %q, want default-trimmed value", candidate.Fields["name"])
	}
}

func TestMapRowConfiguredTransformationsSupersedeTrim(t *testing.T) {
	cfg := testConfig(map[string]string{"0": "name"})
	cfg.Transformations["0"] = []string{"uppercase"}

	candidate := mapRow([]string{"  ada  "}, 1, cfg, testLogger)

	// No implicit trim once transformations are configured.
	if candidate.Fields["name"] != "  ADA  " {
		t.Errorf("name = %q, want %q", candidate.Fields["name"], "  ADA  ")
	}
}

func TestMapRowDateColumn(t *testing.T) {
	cfg := testConfig(map[string]string{"0": "purchased_at"})
	cfg.FieldTypes["0"] = "date"
	cfg.DateFormats["0"] = "dd/mm/yyyy"

	candidate := mapRow([]string{"15/03/2024"}, 1, cfg, testLogger)

	if candidate.Fields["purchased_at"] != "2024-03-15" {
		t.Errorf("purchased_at = %q", candidate.Fields["purchased_at"])
	}
}

func TestMapRowDateWithoutFormatIsLeftAlone(t *testing.T) {
	cfg := testConfig(map[string]string{"0": "purchased_at"})
	cfg.FieldTypes["0"] = "date"

	candidate := mapRow([]string{"15/03/2024"}, 1, cfg, testLogger)

	if candidate.Fields["purchased_at"] != "15/03/2024" {
		t.Errorf("purchased_at = %q, want raw value", candidate.Fields["purchased_at"])
	}
}

func TestMapRowNonNumericColumnID(t *testing.T) {
	cfg := testConfig(map[string]string{"bogus": "name"})

	candidate := mapRow([]string{"Ada"}, 1, cfg, testLogger)

	if len(candidate.Fields) != 0 {
		t.Errorf("fields = %v, want none", candidate.Fields)
	}
}
