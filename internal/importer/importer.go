// Package importer provides CSV and Excel import functionality for batch
// GDW jobs. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/gdw/internal/model"
)

// Job is one batch entry: a named set of wafer parameters to run the
// maximum GDW search on.
type Job struct {
	Name   string
	Params model.WaferParams
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Jobs     []Job
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name          int
	DieX          int
	DieY          int
	Diameter      int
	EdgeExclusion int
	FlatExclusion int
	NorthLimit    int
}

// Column roles in positional order.
const (
	roleName          = "name"
	roleDieX          = "die_x"
	roleDieY          = "die_y"
	roleDiameter      = "diameter"
	roleEdgeExclusion = "edge_exclusion"
	roleFlatExclusion = "flat_exclusion"
	roleNorthLimit    = "north_limit"
)

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	roleName:          {"name", "job", "label", "device", "product", "description", "desc"},
	roleDieX:          {"die x", "die_x", "diex", "x", "width", "w", "step x", "die width"},
	roleDieY:          {"die y", "die_y", "diey", "y", "height", "h", "step y", "die height"},
	roleDiameter:      {"diameter", "dia", "wafer", "wafer diameter", "wafer size", "size"},
	roleEdgeExclusion: {"edge exclusion", "edge_exclusion", "edge excl", "edge_excl", "excl", "ee"},
	roleFlatExclusion: {"flat exclusion", "flat_exclusion", "flat excl", "flat_excl", "fe"},
	roleNorthLimit:    {"north limit", "north_limit", "north", "scribe limit", "nl"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (name, die x, die y, diameter, edge exclusion, flat exclusion,
// north limit) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Name:          -1,
		DieX:          -1,
		DieY:          -1,
		Diameter:      -1,
		EdgeExclusion: -1,
		FlatExclusion: -1,
		NorthLimit:    -1,
	}

	isHeader := false
	for i, cell := range row {
		role, ok := matchRole(cell)
		if !ok {
			continue
		}
		isHeader = true
		idx := mapping.index(role)
		if *idx == -1 {
			*idx = i
		}
	}

	if !isHeader {
		return ColumnMapping{
			Name:          0,
			DieX:          1,
			DieY:          2,
			Diameter:      3,
			EdgeExclusion: 4,
			FlatExclusion: 5,
			NorthLimit:    6,
		}, false
	}

	return mapping, true
}

func matchRole(cell string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(cell))
	for role, aliases := range headerAliases {
		for _, alias := range aliases {
			if normalized == alias {
				return role, true
			}
		}
	}
	return "", false
}

func (m *ColumnMapping) index(role string) *int {
	switch role {
	case roleName:
		return &m.Name
	case roleDieX:
		return &m.DieX
	case roleDieY:
		return &m.DieY
	case roleDiameter:
		return &m.Diameter
	case roleEdgeExclusion:
		return &m.EdgeExclusion
	case roleFlatExclusion:
		return &m.FlatExclusion
	default:
		return &m.NorthLimit
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseOptional parses a numeric cell, keeping fallback when the cell is empty.
func parseOptional(row []string, idx int, fallback float64, rowLabel, column string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return fallback, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, column, s)
	}
	return v, ""
}

// parseRow extracts a Job from a row using the given column mapping. Empty
// optional cells take their value from defaults.
// Returns the job and any error message.
func parseRow(row []string, mapping ColumnMapping, defaults model.WaferParams, rowLabel string, jobCount int) (Job, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Job %d", jobCount+1)
	}

	params := defaults
	params.NorthLimit = nil
	if defaults.NorthLimit != nil {
		params.NorthLimit = model.Float(*defaults.NorthLimit)
	}

	dieXStr := getCell(row, mapping.DieX)
	if dieXStr == "" {
		return Job{}, fmt.Sprintf("%s: Missing die X value", rowLabel)
	}
	dieX, err := strconv.ParseFloat(dieXStr, 64)
	if err != nil {
		return Job{}, fmt.Sprintf("%s: Invalid die X '%s'", rowLabel, dieXStr)
	}

	dieYStr := getCell(row, mapping.DieY)
	if dieYStr == "" {
		return Job{}, fmt.Sprintf("%s: Missing die Y value", rowLabel)
	}
	dieY, err := strconv.ParseFloat(dieYStr, 64)
	if err != nil {
		return Job{}, fmt.Sprintf("%s: Invalid die Y '%s'", rowLabel, dieYStr)
	}
	params.DieX, params.DieY = dieX, dieY

	var msg string
	if params.Diameter, msg = parseOptional(row, mapping.Diameter, defaults.Diameter, rowLabel, "diameter"); msg != "" {
		return Job{}, msg
	}
	if params.EdgeExclusion, msg = parseOptional(row, mapping.EdgeExclusion, defaults.EdgeExclusion, rowLabel, "edge exclusion"); msg != "" {
		return Job{}, msg
	}
	if params.FlatExclusion, msg = parseOptional(row, mapping.FlatExclusion, defaults.FlatExclusion, rowLabel, "flat exclusion"); msg != "" {
		return Job{}, msg
	}

	if s := getCell(row, mapping.NorthLimit); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Job{}, fmt.Sprintf("%s: Invalid north limit '%s'", rowLabel, s)
		}
		params.NorthLimit = model.Float(v)
	}

	if err := params.Validate(); err != nil {
		return Job{}, fmt.Sprintf("%s: %v", rowLabel, err)
	}

	return Job{Name: name, Params: params}, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports jobs from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, defaults model.WaferParams) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, defaults, "Line", result.Warnings)
}

// ImportCSVFromReader imports jobs from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, defaults model.WaferParams) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, defaults, "Line", nil)
}

// ImportExcel imports jobs from the first sheet of an Excel (.xlsx) file.
func ImportExcel(path string, defaults model.WaferParams) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, defaults, "Row", nil)
}

// ImportFile dispatches on the file extension: .xlsx/.xlsm go through
// ImportExcel, everything else is read as CSV.
func ImportFile(path string, defaults model.WaferParams) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path, defaults)
	}
	return ImportCSV(path, defaults)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, defaults model.WaferParams, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.DieX == -1 {
			missing = append(missing, "Die X")
		}
		if mapping.DieY == -1 {
			missing = append(missing, "Die Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header: the die X column is not numeric.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		job, errMsg := parseRow(row, mapping, defaults, rowLabel, len(result.Jobs))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Jobs = append(result.Jobs, job)
	}

	if len(result.Jobs) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}

	return result
}
