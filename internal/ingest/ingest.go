package ingest

import "context"

// Document is one discovered input file.
type Document struct {
	SourcePath string
	Stem       string // base name without extension; output artifacts derive from it
	HashHex    string
	SizeBytes  int64
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32 // files encountered; directory entries are not counted
	Matched uint32
	Failed  uint32
}

// Ingestor is the behavior the batch entry point depends on.
type Ingestor interface {
	// ScanDirectory discovers all matching documents under root.
	ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]Document, DirStats, error)
}
