package readers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helviojunior/abapscan/pkg/models"
)

func drain(t *testing.T, feed func(chan<- models.Unit) error) []models.Unit {
	t.Helper()

	out := make(chan models.Unit, 64)
	require.NoError(t, feed(out))
	close(out)

	var units []models.Unit
	for u := range out {
		units = append(units, u)
	}
	return units
}

func TestReadUnitsJsonl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.jsonl")
	content := `{"pgm_name":"Z1","inc_name":"Z1_INC","type":"routine","name":"r1","start_line":5,"end_line":9,"code":"SELECT STAWN FROM MARC."}

{"pgm_name":"Z2","inc_name":"Z2_INC","type":"method","code":"WRITE 'x'."}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	units := drain(t, func(out chan<- models.Unit) error {
		return ReadUnitsJsonl(path, out)
	})

	require.Len(t, units, 2)
	assert.Equal(t, "Z1", units[0].PgmName)
	assert.Equal(t, 5, units[0].StartLine)
	assert.Equal(t, "method", units[1].Type)
}

func TestUnitFromSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zreport.abap")
	code := "REPORT zreport.\nSELECT STAWN FROM MARC.\n"
	require.NoError(t, os.WriteFile(path, []byte(code), 0644))

	unit, err := UnitFromSource(path)
	require.NoError(t, err)

	assert.Equal(t, "ZREPORT", unit.PgmName)
	assert.Equal(t, "zreport.abap", unit.IncName)
	assert.Equal(t, "include", unit.Type)
	assert.Equal(t, 1, unit.StartLine)
	assert.Equal(t, 3, unit.EndLine)
	assert.Equal(t, code, unit.Code)
	assert.True(t, unit.Valid())
}

func TestReadSourcePathDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.abap"), []byte("SELECT STAWN FROM MARC."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("WRITE 'x'."), 0644))
	// non-source extensions are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0644))

	units := drain(t, func(out chan<- models.Unit) error {
		return ReadSourcePath(dir, out)
	})

	require.Len(t, units, 2)
}

func TestReadSourcePathJsonlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.jsonl")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"pgm_name":"Z1","inc_name":"I1","type":"routine","code":"x"}`+"\n"), 0644))

	units := drain(t, func(out chan<- models.Unit) error {
		return ReadSourcePath(path, out)
	})

	require.Len(t, units, 1)
	assert.Equal(t, "Z1", units[0].PgmName)
}
