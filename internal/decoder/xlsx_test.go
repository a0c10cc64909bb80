package decoder

import (
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, cells map[string]any) []byte {
	t.Helper()
	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()

	for ref, value := range cells {
		if err := workbook.SetCellValue("Sheet1", ref, value); err != nil {
			t.Fatalf("set cell %s: %v", ref, err)
		}
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeXLSX(t *testing.T) {
	data := buildWorkbook(t, map[string]any{
		"A1": "sku", "B1": "name",
		"A2": "A-1", "B2": "Widget",
		"A3": "A-2", "B3": "Gadget",
	})

	rows, err := Decode("items.xlsx", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := [][]string{
		{"sku", "name"},
		{"A-1", "Widget"},
		{"A-2", "Gadget"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestDecodeXLSXNumericCellsStayRaw(t *testing.T) {
	data := buildWorkbook(t, map[string]any{
		"A1": "serial",
		"A2": 45366,
	})

	rows, err := Decode("dates.xlsx", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rows[1][0] != "45366" {
		t.Errorf("cell = %q, want raw serial preserved", rows[1][0])
	}
}

func TestDecodeWorkbookWithoutExtension(t *testing.T) {
	data := buildWorkbook(t, map[string]any{"A1": "x"})

	rows, err := Decode("upload", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "x" {
		t.Errorf("rows = %v", rows)
	}
}
