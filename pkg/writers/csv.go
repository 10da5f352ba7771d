package writers

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/helviojunior/abapscan/pkg/models"
)

// CsvWriter is a CSV results writer (findings only, limited columns)
type CsvWriter struct {
	file   *os.File
	writer *csv.Writer
	mutex  sync.Mutex
}

// NewCsvWriter initialises a CSV writer
func NewCsvWriter(path string) (*CsvWriter, error) {
	newFile := !fileExists(path)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	cw := &CsvWriter{
		file:   file,
		writer: csv.NewWriter(file),
		mutex:  sync.Mutex{},
	}

	if newFile {
		if err := cw.writer.Write([]string{
			"pgm_name", "inc_name", "type", "name", "issue_type",
			"severity", "table", "field", "line", "message", "suggestion",
		}); err != nil {
			return nil, err
		}
		cw.writer.Flush()
	}

	return cw, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Write a result's findings as CSV rows
func (cw *CsvWriter) Write(result *models.ScanResult) error {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	for _, f := range result.Findings {
		if err := cw.writer.Write([]string{
			f.PgmName, f.IncName, f.Type, f.Name, f.IssueType.String(),
			f.Severity, f.Table, f.Field, strconv.Itoa(f.Line), f.Message, f.Suggestion,
		}); err != nil {
			return err
		}
	}
	cw.writer.Flush()

	return cw.writer.Error()
}
