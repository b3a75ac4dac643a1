package projection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinytelemetry/econdash/internal/model"
)

// ErrNothingToExport is returned by SaveCSV for empty input. No file is
// written in that case.
var ErrNothingToExport = errors.New("projection: nothing to export")

// SaveCSV writes ToCSV(rows) to <dir>/<name>.csv and returns the path. An
// empty name uses the default export name. The file appears atomically.
func SaveCSV(dir, name string, rows []Row) (string, error) {
	text := ToCSV(rows)
	if text == "" {
		return "", ErrNothingToExport
	}

	name = strings.TrimSuffix(strings.TrimSpace(name), ".csv")
	if name == "" {
		name = model.DefaultExportName
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, name+".csv")
	if err := writeFile(path, []byte(text)); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
