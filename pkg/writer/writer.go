package writer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cam-mcevenue/quadlet-forge/pkg/log"
	"github.com/cam-mcevenue/quadlet-forge/pkg/quadlet"
)

// Writer installs generated unit files under a root directory
type Writer struct {
	// Root is the directory install paths join against, normally a
	// user's home directory
	Root string

	// Flatten drops the per-artifact install directory and writes every
	// file directly into Root. Used for inspection output directories.
	Flatten bool

	// DryRun resolves paths and hashes without touching the filesystem
	DryRun bool

	logger zerolog.Logger
}

// New creates a writer rooted at root
func New(root string) *Writer {
	return &Writer{
		Root:   root,
		logger: log.WithComponent("writer"),
	}
}

// WrittenFile records one installed unit: its artifact, the absolute path
// and the content hash of the bytes on disk
type WrittenFile struct {
	Artifact quadlet.Artifact
	Path     string
	SHA256   string
}

// Write installs the artifacts, creating install directories as needed.
// Existing files are overwritten; generation owns its output tree. Every
// file ends with a single trailing newline.
func (w *Writer) Write(artifacts []quadlet.Artifact) ([]WrittenFile, error) {
	written := make([]WrittenFile, 0, len(artifacts))
	for _, artifact := range artifacts {
		path := w.Path(artifact)
		contents := artifact.Contents
		if !strings.HasSuffix(contents, "\n") {
			contents += "\n"
		}
		sum := sha256.Sum256([]byte(contents))

		if w.DryRun {
			w.logger.Info().Str("path", path).Msg("would write unit")
		} else {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return written, fmt.Errorf("failed to create install directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
				return written, fmt.Errorf("failed to write %s: %w", artifact.FileName, err)
			}
			w.logger.Debug().Str("path", path).Msg("unit written")
		}

		written = append(written, WrittenFile{
			Artifact: artifact,
			Path:     path,
			SHA256:   hex.EncodeToString(sum[:]),
		})
	}
	return written, nil
}

// Path resolves where an artifact installs under this writer's root
func (w *Writer) Path(artifact quadlet.Artifact) string {
	if w.Flatten {
		return filepath.Join(w.Root, artifact.FileName)
	}
	return filepath.Join(w.Root, artifact.OutputDir, artifact.FileName)
}
