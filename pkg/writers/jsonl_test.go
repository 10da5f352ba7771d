package writers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helviojunior/abapscan/pkg/models"
)

func TestJsonWriterFindingsPresence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	w, err := NewJsonWriter(path)
	require.NoError(t, err)

	flagged := &models.ScanResult{
		PgmName: "ZDIRTY", IncName: "I1", Type: "routine",
		Findings: []models.Finding{{
			PgmName: "ZDIRTY", IncName: "I1", Type: "routine",
			IssueType: models.DirectFieldAccess, Severity: "error",
			Table: "MARC", Field: "STAWN",
		}},
	}
	clean := &models.ScanResult{PgmName: "ZCLEAN", IncName: "I2", Type: "routine"}

	require.NoError(t, w.Write(flagged))
	require.NoError(t, w.Write(clean))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	// the flagged result serializes its findings; the clean one has
	// no findings key at all
	assert.Contains(t, lines[0], `"findings"`)
	assert.Contains(t, lines[0], `"SensitiveFieldDirectAccess"`)
	assert.NotContains(t, lines[1], `"findings"`)
}
