package parser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ukaji3/finreport-go/pkg/finreport/models"
	"github.com/xuri/excelize/v2"
)

// openFixture saves f into a temp dir and reopens it through Open.
func openFixture(t *testing.T, f *excelize.File) Workbook {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "fixture.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	f.Close()

	wb, err := Open(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestReadEntity(t *testing.T) {
	f := excelize.NewFile()
	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "F2", "  Acme Corp  ")
	f.SetCellValue(sheetName, "F3", "1200")
	f.SetCellValue(sheetName, "F4", "$-")
	f.SetCellValue(sheetName, "F5", " padded ")

	wb := openFixture(t, f)
	sheet, err := wb.Sheet(sheetName)
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}

	mappings := []models.FieldMapping{
		{FieldName: "Revenue", RowNumber: 3},
		{FieldName: "Profit", RowNumber: 4},
		{FieldName: "Notes", RowNumber: 5},
	}
	rec, ok, errs := ReadEntity(sheet, 6, 2, mappings)
	if !ok {
		t.Fatal("Expected column 6 to be an entity column")
	}
	if len(errs) != 0 {
		t.Fatalf("Unexpected cell errors: %v", errs)
	}

	if rec.CompanyName() != "Acme Corp" {
		t.Errorf("Expected trimmed company name, got %q", rec.CompanyName())
	}
	want := map[string]string{"revenue": "1200", "profit": "", "notes": " padded "}
	for k, v := range want {
		got, found := rec.Get(k)
		if !found || got != v {
			t.Errorf("Get(%q) = %q, %v; expected %q", k, got, found, v)
		}
	}

	keys := rec.Keys()
	expectedKeys := []string{"companyName", "revenue", "profit", "notes"}
	if len(keys) != len(expectedKeys) {
		t.Fatalf("Expected keys %v, got %v", expectedKeys, keys)
	}
	for i := range keys {
		if keys[i] != expectedKeys[i] {
			t.Errorf("keys[%d] = %q, expected %q", i, keys[i], expectedKeys[i])
		}
	}
}

func TestReadEntityBlankHeader(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "G2", "   ")
	f.SetCellValue("Sheet1", "G3", "999")

	wb := openFixture(t, f)
	sheet, err := wb.Sheet("Sheet1")
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}

	_, ok, errs := ReadEntity(sheet, 7, 2, []models.FieldMapping{{FieldName: "x", RowNumber: 3}})
	if ok {
		t.Error("Expected blank header column to be skipped")
	}
	if len(errs) != 0 {
		t.Errorf("Unexpected cell errors: %v", errs)
	}
}

func TestReadEntityCellError(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "F2", "Acme")
	f.SetCellValue("Sheet1", "F3", "10")

	wb := openFixture(t, f)
	sheet, err := wb.Sheet("Sheet1")
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}

	// Row 0 is not a valid cell coordinate.
	mappings := []models.FieldMapping{
		{FieldName: "broken", RowNumber: 0},
		{FieldName: "revenue", RowNumber: 3},
	}
	rec, ok, errs := ReadEntity(sheet, 6, 2, mappings)
	if !ok {
		t.Fatal("Expected entity column")
	}
	if len(errs) != 1 {
		t.Fatalf("Expected 1 cell error, got %d", len(errs))
	}
	if errs[0].Field != "broken" || errs[0].Row != 0 || errs[0].Col != 6 {
		t.Errorf("Unexpected cell error: %+v", errs[0])
	}
	if _, found := rec.Get("broken"); found {
		t.Error("Failed cell should be absent from the record")
	}
	if v, _ := rec.Get("revenue"); v != "10" {
		t.Errorf("Expected revenue 10, got %q", v)
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"$-", ""},
		{" $-  ", ""},
		{"$-1", "$-1"},
		{"$ -", "$ -"},
		{"  42 ", "  42 "},
		{"", ""},
	}

	for _, tt := range tests {
		result := NormalizeValue(tt.input)
		if result != tt.expected {
			t.Errorf("NormalizeValue(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestSheetNotFound(t *testing.T) {
	wb := openFixture(t, excelize.NewFile())

	_, err := wb.Sheet("Missing")
	if !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound, got %v", err)
	}
}
