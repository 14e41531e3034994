package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prepline/recipe-extractor/constants"
)

// FSIngestor reads from the local filesystem.
type FSIngestor struct {
	logger *slog.Logger
}

func NewFSIngestor(logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{logger: logger}
}

// ScanDirectory walks root, skips hidden entries if requested, and returns
// one Document per file with an allowed extension. A file that cannot be
// read (hashing) is counted as failed and logged but does not abort the
// scan; each document is independent.
func (i *FSIngestor) ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]Document, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("input directory is required")
	}

	var docs []Document
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			i.logger.Warn("ingest.walk.error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		// Scanned counts files, not directory entries.
		if !d.IsDir() {
			stats.Scanned++
		}
		if skipHidden && IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !AllowedExt(ext) {
			return nil
		}
		stats.Matched++

		doc, err := i.describe(path)
		if err != nil {
			i.logger.Warn("ingest.describe.error", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	i.logger.Info("ingest.scan.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed", stats.Failed,
	)
	return docs, stats, nil
}

func (i *FSIngestor) describe(path string) (Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return Document{}, err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			i.logger.Warn("ingest.close.error", "path", abs, "error", err)
		}
	}(f)

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return Document{}, err
	}

	base := filepath.Base(abs)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Document{
		SourcePath: abs,
		Stem:       stem,
		HashHex:    hex.EncodeToString(h.Sum(nil)),
		SizeBytes:  n,
	}, nil
}

// AllowedExt checks if a normalized extension is in the allowed set.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
