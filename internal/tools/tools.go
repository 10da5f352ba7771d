package tools

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-dedup/simhash"
	"github.com/gofrs/uuid"
	"github.com/h2non/filetype"
)

// GetHash returns the hex SHA-1 of data.
func GetHash(data []byte) string {
	h := sha1.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Shingle returns the hex simhash shingle of a text, used to group
// near-duplicate units at report time.
func Shingle(text string) string {
	sh := simhash.NewSimhash()
	return strconv.FormatUint(sh.GetSimhash(sh.NewWordFeatureSet([]byte(text))), 16)
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileType returns "file" or "dir" for a path.
func FileType(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "dir", nil
	}
	return "file", nil
}

// GetMimeType sniffs the mime type of a file from its leading bytes.
func GetMimeType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 8192)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return "", err
	}

	kind, err := filetype.Match(buf[:n])
	if err != nil {
		return "", err
	}
	if kind == filetype.Unknown {
		// filetype only knows binary magic numbers; unknown means
		// plain text as far as this tool cares
		return "text/plain", nil
	}
	return kind.MIME.Value, nil
}

// IsBinaryFile reports whether a file looks like a binary format.
func IsBinaryFile(path string) bool {
	mime, err := GetMimeType(path)
	if err != nil {
		return false
	}
	return mime != "text/plain"
}

// TempFileName generates a unique file path under dir.
func TempFileName(dir, prefix, suffix string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	u, err := uuid.NewV4()
	if err != nil {
		return filepath.Join(dir, prefix+"tmp"+suffix)
	}
	return filepath.Join(dir, prefix+u.String()+suffix)
}

// CreateDir creates a directory (and parents) and returns its path.
func CreateDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// FormatIntComma formats an int with thousands separators.
func FormatIntComma(v int) string {
	return FormatInt64Comma(int64(v))
}

// FormatInt64Comma formats an int64 with thousands separators.
func FormatInt64Comma(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	out := ""
	for len(s) > 3 {
		out = "," + s[len(s)-3:] + out
		s = s[:len(s)-3]
	}
	return sign + s + out
}

// SliceHasStr reports whether a string slice contains a value.
func SliceHasStr(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// Bytes produces a human readable representation of an SI size.
func Bytes(s uint64) string {
	if s < 1000 {
		return fmt.Sprintf("%d B", s)
	}
	sizes := []string{"kB", "MB", "GB", "TB"}
	val := float64(s)
	idx := -1
	for val >= 1000 && idx < len(sizes)-1 {
		val /= 1000
		idx++
	}
	if val < 10 {
		return fmt.Sprintf("%.1f %s", val, sizes[idx])
	}
	return fmt.Sprintf("%.0f %s", val, sizes[idx])
}
