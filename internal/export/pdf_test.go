package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/gdw/internal/engine"
	"github.com/piwi3910/gdw/internal/model"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.pdf")

	err := ExportPDF(path, searchResult(t), ReportOptions{RunID: "abc12345"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "missing PDF header")
	// Embedded QR image plus tables should be well above an empty page.
	assert.Greater(t, len(data), 1000)
}

func TestExportPDF_WithNorthLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "north.pdf")

	p := model.NewWaferParams(5, 5, 150)
	p.NorthLimit = model.Float(50)
	res, err := engine.New(model.DefaultSettings()).MaxGDW(p)
	require.NoError(t, err)

	require.NoError(t, ExportPDF(path, res, ReportOptions{RunID: "n1", Title: "Scribe check"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestExportPDF_EmptyResult(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "empty.pdf"), engine.SearchResult{}, ReportOptions{})
	assert.Error(t, err)
}

func TestNewTraveler(t *testing.T) {
	tr := NewTraveler("r1", searchResult(t))

	assert.Equal(t, Traveler{
		RunID:      "r1",
		DieX:       5,
		DieY:       4,
		Diameter:   150,
		Offset:     "(even, odd)",
		ProbeCount: 730,
	}, tr)

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"r1","die_x":5,"die_y":4,"diameter":150,"offset":"(even, odd)","gdw":730}`, string(data))
}

func TestNorthLimitText(t *testing.T) {
	assert.Equal(t, "none", northLimitText(nil))
	assert.Equal(t, "62.5 mm", northLimitText(model.Float(62.5)))
}
