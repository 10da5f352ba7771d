package scanner

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helviojunior/abapscan/pkg/models"
	"github.com/helviojunior/abapscan/pkg/rules"
	"github.com/helviojunior/abapscan/pkg/writers"
)

// collectWriter buffers results for assertions
type collectWriter struct {
	mutex   sync.Mutex
	results []*models.ScanResult
}

func (cw *collectWriter) Write(result *models.ScanResult) error {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.results = append(cw.results, result)
	return nil
}

func newTestRunner(t *testing.T, w writers.Writer) *Runner {
	t.Helper()

	opts := *NewDefaultOptions()
	opts.Logging.Silence = true
	opts.Scanner.Threads = 2

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	run, err := NewRunner(logger, rules.Note2378796(), opts, []writers.Writer{w}, nil)
	require.NoError(t, err)
	return run
}

func TestRunnerScansBatch(t *testing.T) {
	cw := &collectWriter{}
	run := newTestRunner(t, cw)

	go func() {
		defer close(run.Units)
		run.Units <- models.Unit{
			PgmName: "ZDIRTY", IncName: "I1", Type: "routine",
			Code: "SELECT STAWN FROM MARC WHERE MATNR = '1'.",
		}
		run.Units <- models.Unit{
			PgmName: "ZCLEAN", IncName: "I2", Type: "routine",
			Code: "WRITE 'x'.",
		}
	}()

	status := run.Run()

	assert.Equal(t, 2, status.Scanned)
	assert.Equal(t, 1, status.Flagged)
	assert.Equal(t, 1, status.Clean)
	assert.Equal(t, 1, status.Direct)
	assert.Equal(t, 0, status.Join)
	assert.Equal(t, 0, status.Error)

	require.Len(t, cw.results, 2)
	for _, r := range cw.results {
		assert.NotEmpty(t, r.ScanID)
		assert.NotEmpty(t, r.Fingerprint)
		assert.NotEmpty(t, r.Shingle)
	}
}

func TestRunnerRejectsInvalidUnit(t *testing.T) {
	cw := &collectWriter{}
	run := newTestRunner(t, cw)

	go func() {
		defer close(run.Units)
		// missing inc_name and code
		run.Units <- models.Unit{PgmName: "ZBAD", Type: "routine"}
	}()

	status := run.Run()

	assert.Equal(t, 1, status.Scanned)
	assert.Equal(t, 1, status.Error)
	assert.Empty(t, cw.results)
}
