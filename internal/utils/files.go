package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the YYYYMMDD_HHMMSS stamp embedded in every artifact name.
const TimestampLayout = "20060102_150405"

// maxSuffix bounds the collision suffixes tried by CreateExclusive.
const maxSuffix = 1000

// Clock returns the current time. Stages take one so tests can pin timestamps.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// FormatTimestamp formats t using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// CreateExclusive creates dir/name+ext without ever replacing an existing file.
// When the name is taken it tries name_1+ext, name_2+ext and so on.
// It returns the open file and its path.
func CreateExclusive(dir, name, ext string) (*os.File, string, error) {
	for i := 0; i < maxSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d", name, i)
		}

		path := filepath.Join(dir, candidate+ext)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}

		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}

	return nil, "", fmt.Errorf("no free file name for %s%s in %s", name, ext, dir)
}

// SymbolFromFilename returns the text before the first underscore of the
// file's base name, or the base name without extension if it has none.
func SymbolFromFilename(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "_"); i >= 0 {
		return base[:i]
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EnsureDirs creates every directory (and parents) if missing.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
