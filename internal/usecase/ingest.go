package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"vecstore/internal/adapter/fs"
	"vecstore/internal/port"
)

// IngestUseCase embeds files and stores their vectors. Which files to
// embed is decided entirely here, in the outer layer; the store and
// generator below it only see opaque node IDs and text.
type IngestUseCase struct {
	store    port.VectorStore
	embedder port.Embedder
	walker   *fs.Walker
}

// NewIngestUseCase creates an ingest use case.
func NewIngestUseCase(store port.VectorStore, embedder port.Embedder, walker *fs.Walker) *IngestUseCase {
	return &IngestUseCase{store: store, embedder: embedder, walker: walker}
}

// IngestResult summarizes an ingest run.
type IngestResult struct {
	FilesEmbedded int
	FilesSkipped  int
	Errors        []string
}

// ProgressFunc reports ingest progress after each file.
type ProgressFunc func(processed, total int, currentFile string)

// Ingest walks root, embeds every matching file's content and upserts
// it under its relative path as node ID. Per-file failures are
// collected, not fatal; an empty file is skipped.
func (u *IngestUseCase) Ingest(root string, progress ProgressFunc) (IngestResult, error) {
	var result IngestResult

	files, err := u.walker.Walk(root)
	if err != nil {
		return result, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	for i, f := range files {
		if progress != nil {
			progress(i, len(files), f.RelPath)
		}

		if f.Size == 0 {
			result.FilesSkipped++
			continue
		}

		data, err := os.ReadFile(f.Path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", f.RelPath, err))
			continue
		}

		vec, err := u.embedder.Embed(string(data))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: embed: %v", f.RelPath, err))
			continue
		}

		hash := sha256.Sum256(data)
		if err := u.store.Put(f.RelPath, f.Path, hex.EncodeToString(hash[:]), vec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: store: %v", f.RelPath, err))
			continue
		}
		result.FilesEmbedded++
	}

	if progress != nil {
		progress(len(files), len(files), "")
	}
	return result, nil
}
