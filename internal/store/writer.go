// Package store persists validated recipe records, one JSON artifact per
// input document.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prepline/recipe-extractor/internal/common"
	"github.com/prepline/recipe-extractor/internal/entity"
)

// Writer serializes recipes to <dir>/<stem>.json. Writes are overwrite
// semantics at the storage boundary: re-running the pipeline on the same
// input replaces the prior artifact, it never mutates a live object.
type Writer struct {
	dir    string
	logger *slog.Logger
}

func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// Write persists recipe under the destination stem (the input document's
// base name without extension) and returns the full output path. Any I/O
// failure surfaces as PersistenceError.
func (w *Writer) Write(recipe entity.Recipe, stem string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", &common.PersistenceError{Path: w.dir, Cause: err}
	}

	out := filepath.Join(w.dir, stem+".json")
	b, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		return "", &common.PersistenceError{Path: out, Cause: fmt.Errorf("encode recipe: %w", err)}
	}
	b = append(b, '\n')

	if err := os.WriteFile(out, b, 0o644); err != nil {
		return "", &common.PersistenceError{Path: out, Cause: err}
	}

	w.logger.Info("store.write.ok", "path", out, "bytes", len(b))
	return out, nil
}

// Read loads a previously written artifact back into a Recipe. Used by the
// export summary and by round-trip checks.
func Read(path string) (entity.Recipe, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return entity.Recipe{}, &common.PersistenceError{Path: path, Cause: err}
	}
	var r entity.Recipe
	if err := json.Unmarshal(b, &r); err != nil {
		return entity.Recipe{}, &common.PersistenceError{Path: path, Cause: fmt.Errorf("decode recipe: %w", err)}
	}
	return r, nil
}
