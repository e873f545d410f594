package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/gdw/internal/model"
)

func defaultParams() model.WaferParams {
	return model.NewWaferParams(1, 1, 150)
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Die X,Die Y\nA,5,4\nB,6,6\n", ','},
		{"semicolon", "Name;Die X;Die Y\nA;5;4\nB;6;6\n", ';'},
		{"tab", "Name\tDie X\tDie Y\nA\t5\t4\nB\t6\t6\n", '\t'},
		{"pipe", "Name|Die X|Die Y\nA|5|4\nB|6|6\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Name", "Die X", "Die Y", "Diameter", "Edge Exclusion", "Flat Exclusion", "North Limit"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, DieX: 1, DieY: 2, Diameter: 3, EdgeExclusion: 4, FlatExclusion: 5, NorthLimit: 6}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"DEVICE", "W", "H", "Dia", "EE", "FE"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Name != 0 || mapping.DieX != 1 || mapping.DieY != 2 {
		t.Errorf("unexpected name/die mapping: %+v", mapping)
	}
	if mapping.Diameter != 3 || mapping.EdgeExclusion != 4 || mapping.FlatExclusion != 5 {
		t.Errorf("unexpected wafer mapping: %+v", mapping)
	}
	if mapping.NorthLimit != -1 {
		t.Errorf("expected NorthLimit unmapped, got %d", mapping.NorthLimit)
	}
}

func TestDetectColumns_ReorderedColumns(t *testing.T) {
	row := []string{"die_y", "die_x", "job"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.DieY != 0 || mapping.DieX != 1 || mapping.Name != 2 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	row := []string{"A", "5", "4", "150"}
	mapping, isHeader := DetectColumns(row)

	if isHeader {
		t.Error("expected no header")
	}
	if mapping.DieX != 1 || mapping.NorthLimit != 6 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Die X,Die Y,Diameter,Edge Exclusion,Flat Exclusion,North Limit\n" +
		"Sensor,5,4,150,3.5,5,\n" +
		"Driver,6,6,200,0,0,90\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',', defaultParams())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Jobs))
	}

	first := result.Jobs[0]
	if first.Name != "Sensor" {
		t.Errorf("expected 'Sensor', got '%s'", first.Name)
	}
	if first.Params.DieX != 5 || first.Params.DieY != 4 {
		t.Errorf("expected die 5x4, got %gx%g", first.Params.DieX, first.Params.DieY)
	}
	if first.Params.EdgeExclusion != 3.5 {
		t.Errorf("expected edge exclusion 3.5, got %g", first.Params.EdgeExclusion)
	}
	if first.Params.NorthLimit != nil {
		t.Errorf("expected no north limit, got %v", *first.Params.NorthLimit)
	}

	second := result.Jobs[1]
	if second.Params.Diameter != 200 {
		t.Errorf("expected diameter 200, got %g", second.Params.Diameter)
	}
	if second.Params.NorthLimit == nil || *second.Params.NorthLimit != 90 {
		t.Errorf("expected north limit 90, got %v", second.Params.NorthLimit)
	}
}

func TestImportCSVFromReader_DefaultsFillMissingColumns(t *testing.T) {
	defaults := model.NewWaferParams(1, 1, 100)
	defaults.EdgeExclusion = 2
	defaults.NorthLimit = model.Float(40)

	data := "Die X,Die Y\n5,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', defaults)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	job := result.Jobs[0]
	if job.Name != "Job 1" {
		t.Errorf("expected generated name 'Job 1', got '%s'", job.Name)
	}
	if job.Params.Diameter != 100 || job.Params.EdgeExclusion != 2 || job.Params.FlatExclusion != model.DefaultFlatExclusion {
		t.Errorf("defaults not applied: %+v", job.Params)
	}
	if job.Params.NorthLimit == nil || *job.Params.NorthLimit != 40 {
		t.Fatalf("expected default north limit 40, got %v", job.Params.NorthLimit)
	}

	// Jobs must not share the defaults' north limit pointer.
	*job.Params.NorthLimit = 1
	if *defaults.NorthLimit != 40 {
		t.Error("job mutated the defaults north limit")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "A,5,4,150,3.5,5\nB,6,6\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', defaultParams())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Jobs))
	}
	if result.Jobs[0].Params.FlatExclusion != 5 {
		t.Errorf("expected flat exclusion 5, got %g", result.Jobs[0].Params.FlatExclusion)
	}
	if result.Jobs[1].Params.Diameter != 150 {
		t.Errorf("expected default diameter 150, got %g", result.Jobs[1].Params.Diameter)
	}
}

func TestImportCSVFromReader_UnrecognizedHeaderSkipped(t *testing.T) {
	data := "Foo,Bar,Baz\nA,5,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', defaultParams())

	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d (errors: %v)", len(result.Jobs), result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a header warning")
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"missing die x", "A,,4", "Missing die X"},
		{"invalid die y", "A,5,abc", "Invalid die Y"},
		{"invalid diameter", "A,5,4,big", "Invalid diameter"},
		{"invalid north limit", "A,5,4,150,5,5,north", "Invalid north limit"},
		{"zero die", "A,0,4", "die size must be positive"},
		{"negative exclusion", "A,5,4,150,-1", "edge exclusion must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "Name,Die X,Die Y,Diameter,Edge Exclusion,Flat Exclusion,North Limit\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',', defaultParams())

			if len(result.Jobs) != 0 {
				t.Errorf("expected no jobs, got %d", len(result.Jobs))
			}
			if len(result.Errors) != 1 {
				t.Fatalf("expected 1 error, got %v", result.Errors)
			}
			if !strings.Contains(result.Errors[0], tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, result.Errors[0])
			}
			if !strings.HasPrefix(result.Errors[0], "Line 2:") {
				t.Errorf("expected error to name line 2, got %q", result.Errors[0])
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Name,Die X,Die Y\nGood,5,4\nBad,x,4\n\nAlso Good,3,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', defaultParams())

	if len(result.Jobs) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(result.Jobs))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Name,Die X,Diameter\nA,5,150\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', defaultParams())

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Die Y") {
		t.Errorf("expected missing Die Y, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyAndHeaderOnly(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',', defaultParams())
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}

	result = ImportCSVFromReader(strings.NewReader("Name,Die X,Die Y\n"), ',', defaultParams())
	if len(result.Errors) == 0 {
		t.Error("expected error for header-only input")
	}
}

// ─── ImportCSV File Tests ──────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	content := "Name;Die X;Die Y;Diameter\nA;5;4;150\nB;6;6;200\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path, defaultParams())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Jobs))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/jobs.csv", defaultParams())
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportCSV(path, defaultParams()); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Die X", "Die Y", "Diameter", "Edge Exclusion"},
		{"Sensor", 5, 4, 150, 3.5},
		{"Driver", 6, 6, 200, 0},
	})

	result := ImportExcel(path, defaultParams())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Jobs))
	}
	if result.Jobs[0].Name != "Sensor" || result.Jobs[0].Params.EdgeExclusion != 3.5 {
		t.Errorf("unexpected first job: %+v", result.Jobs[0])
	}
	if result.Jobs[1].Params.EdgeExclusion != 0 {
		t.Errorf("expected edge exclusion 0, got %g", result.Jobs[1].Params.EdgeExclusion)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/jobs.xlsx", defaultParams())
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportFile_DispatchesOnExtension(t *testing.T) {
	xlsx := createTestExcel(t, [][]interface{}{{"Name", "Die X", "Die Y"}, {"A", 5, 4}})
	if result := ImportFile(xlsx, defaultParams()); len(result.Jobs) != 1 {
		t.Errorf("expected 1 job from xlsx, got %d (%v)", len(result.Jobs), result.Errors)
	}

	csvPath := filepath.Join(t.TempDir(), "jobs.txt")
	if err := os.WriteFile(csvPath, []byte("Name,Die X,Die Y\nA,5,4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportFile(csvPath, defaultParams()); len(result.Jobs) != 1 {
		t.Errorf("expected 1 job from csv, got %d (%v)", len(result.Jobs), result.Errors)
	}
}

func TestImportedParamsValidate(t *testing.T) {
	data := "A,5,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', defaultParams())
	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(result.Jobs))
	}
	if err := result.Jobs[0].Params.Validate(); err != nil {
		t.Errorf("imported params should validate, got %v", err)
	}
}
