package readers

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/helviojunior/abapscan/internal/tools"
	"github.com/helviojunior/abapscan/pkg/models"
)

// FileReaderOptions are options for the unit readers
type FileReaderOptions struct {
	Path string
}

// sourceExtensions are the file extensions treated as ABAP source when
// walking a directory.
var sourceExtensions = []string{".abap", ".prog", ".clas", ".fugr", ".txt"}

// ReadUnitsJsonl reads a batch of units from a JSON lines file, one
// unit object per line. Blank lines are skipped.
func ReadUnitsJsonl(path string, out chan<- models.Unit) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 32*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var unit models.Unit
		if err := json.Unmarshal([]byte(line), &unit); err != nil {
			return err
		}
		out <- unit
	}

	return scanner.Err()
}

// UnitFromSource synthesizes a unit from a raw ABAP source file: the
// whole file becomes one unit of type "include".
func UnitFromSource(path string) (*models.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	code := string(data)

	return &models.Unit{
		PgmName:   strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name))),
		IncName:   name,
		Type:      "include",
		StartLine: 1,
		EndLine:   strings.Count(code, "\n") + 1,
		Code:      code,
	}, nil
}

// ReadSourcePath feeds units from a path: a .jsonl file is read as a
// unit batch, any other file as raw ABAP source, and a directory is
// walked for both. Binary files are skipped.
func ReadSourcePath(path string, out chan<- models.Unit) error {
	ft, err := tools.FileType(path)
	if err != nil {
		return err
	}

	if ft == "file" {
		return readSourceFile(path, out)
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(p))
		if ext != ".jsonl" && !tools.SliceHasStr(sourceExtensions, ext) {
			return nil
		}

		return readSourceFile(p, out)
	})
}

func readSourceFile(path string, out chan<- models.Unit) error {
	if strings.ToLower(filepath.Ext(path)) == ".jsonl" {
		return ReadUnitsJsonl(path, out)
	}

	if tools.IsBinaryFile(path) {
		return nil
	}

	unit, err := UnitFromSource(path)
	if err != nil {
		return err
	}
	out <- *unit

	return nil
}
