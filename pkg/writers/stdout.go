package writers

import (
	logger "github.com/helviojunior/abapscan/pkg/log"
	"github.com/helviojunior/abapscan/pkg/models"
)

// StdoutWriter is a Stdout writer
type StdoutWriter struct {
}

// NewStdoutWriter initialises a stdout writer
func NewStdoutWriter() (*StdoutWriter, error) {
	return &StdoutWriter{}, nil
}

// Write findings to stdout
func (s *StdoutWriter) Write(result *models.ScanResult) error {
	for _, f := range result.Findings {
		logger.Print("finding",
			"pgm", f.PgmName, "inc", f.IncName, "line", f.Line,
			"issue", f.IssueType.String(), "field", f.Field, "msg", f.Message)
	}
	return nil
}
