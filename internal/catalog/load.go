package catalog

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// Load reads a dataset from path. A directory uses the values.csv layout,
// .yaml and .yml files hold items and agents, and .csv files hold values
// only.
func Load(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewCatalogError("cannot read catalog", err).WithPath(path)
	}
	if info.IsDir() {
		return LoadDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return readFile(path, func(r io.Reader) (*Dataset, error) {
			return ReadYAML(r, path)
		})
	case ".csv":
		cat, err := readFile(path, func(r io.Reader) (*preference.Catalog, error) {
			return ReadValuesCSV(r, path)
		})
		if err != nil {
			return nil, err
		}
		return newDataset(cat, path), nil
	default:
		return nil, errors.NewCatalogError("unsupported catalog format "+filepath.Ext(path), errors.ErrInvalidInput).WithPath(path)
	}
}
