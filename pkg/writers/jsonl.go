package writers

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/helviojunior/abapscan/pkg/models"
)

// JsonWriter is a JSON lines writer
type JsonWriter struct {
	file  *os.File
	mutex sync.Mutex
}

// NewJsonWriter returns a new JSON lines writer
func NewJsonWriter(path string) (*JsonWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &JsonWriter{
		file:  file,
		mutex: sync.Mutex{},
	}, nil
}

// Write a result as a JSON line
func (jw *JsonWriter) Write(result *models.ScanResult) error {
	jw.mutex.Lock()
	defer jw.mutex.Unlock()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	if _, err := jw.file.Write(append(data, '\n')); err != nil {
		return err
	}

	return nil
}
