package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
)

// Name is the file name of the deployment archive, locally and remotely
const Name = "gulf.zip"

// Entry is one file selected for the archive
type Entry struct {
	AbsolutePath string
	RelativePath string // slash separated, used as the zip entry name
}

// DefaultPath returns where the archive is written. The file is overwritten
// on every run and left in place afterwards.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), Name)
}

// Select walks root and returns every regular file the filter lets through,
// in lexical order. Any traversal error aborts the walk.
func Select(root string, f Filter) ([]Entry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	// WalkDir does not descend into a symlinked root
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if f.skipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if f.Excluded(rel) {
			return nil
		}

		regular, err := isRegular(p, d)
		if err != nil {
			return err
		}
		if !regular {
			return nil
		}

		entries = append(entries, Entry{AbsolutePath: p, RelativePath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return entries, nil
}

// isRegular follows symlinks; links to directories are not descended into.
func isRegular(p string, d fs.DirEntry) (bool, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular(), nil
	}
	info, err := os.Stat(p)
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Builder packs a project tree into a deflate compressed zip archive
type Builder struct {
	root   string
	filter Filter
	logger zerolog.Logger
}

// NewBuilder creates a builder for the tree rooted at root
func NewBuilder(root string, f Filter, logger zerolog.Logger) *Builder {
	return &Builder{root: root, filter: f, logger: logger}
}

// Build writes the archive to dest and returns the entries it contains.
// dest is written in place: a failed build leaves a partial file behind.
func (b *Builder) Build(ctx context.Context, dest string) ([]Entry, error) {
	b.progress().Str("archive", dest).Msg("Archive")

	entries, err := Select(b.root, b.filter)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b.progress().Str("file", entry.RelativePath).Msg("deflating")

		if err := addFile(zw, entry); err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", entry.RelativePath, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}

	return entries, nil
}

// progress lines are shown at info level whatever log_level says
func (b *Builder) progress() *zerolog.Event {
	return b.logger.Log().Str(zerolog.LevelFieldName, zerolog.LevelInfoValue)
}

func addFile(zw *zip.Writer, entry Entry) error {
	src, err := os.Open(entry.AbsolutePath)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = entry.RelativePath
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, src)
	return err
}
