// Package archive rewrites selected entries of zip based containers (EPUB
// included) keeping everything else byte for byte.
package archive

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	fixzip "github.com/hidez8891/zip"
)

// MatchFunc selects entries to be rewritten by name.
type MatchFunc func(name string) bool

// RewriteFunc returns new content for the archive entry.
type RewriteFunc func(name string, data []byte) ([]byte, error)

// Transform copies archive src to dst passing content of every matching
// entry through fn. Entry order, names, compression methods and
// modification times are preserved and entries which do not match are
// copied without recompression, so "mimetype" of EPUB stays first and
// stored. Entries with path traversal components ("..") or absolute paths
// are rejected. dst may be the same as src. Returns number of rewritten
// entries.
func Transform(src, dst string, match MatchFunc, fn RewriteFunc) (int, error) {

	r, err := fixzip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("unable to read archive file (%s): %w", src, err)
	}
	defer r.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("unable to create target file (%s): %w", dst, err)
	}
	defer func() {
		// no-op after successful rename
		out.Close()
		os.Remove(out.Name())
	}()

	w := fixzip.NewWriter(out)

	var count int
	for _, file := range r.File {
		name := file.Name
		if !isSafePath(name) {
			return 0, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}

		if file.FileInfo().IsDir() || !match(name) {
			file.Flags &= ^fixzip.FlagDataDescriptor
			if err := w.CopyFile(file); err != nil {
				return 0, fmt.Errorf("unable to copy entry %s: %w", name, err)
			}
			continue
		}

		if err := rewriteEntry(w, file, fn); err != nil {
			return 0, fmt.Errorf("unable to rewrite entry %s: %w", name, err)
		}
		count++
	}

	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("unable to finalize target file (%s): %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("unable to finalize target file (%s): %w", dst, err)
	}
	// archive is read fully, on Windows it still must be closed before it
	// could be replaced
	r.Close()
	if err := os.Rename(out.Name(), dst); err != nil {
		return 0, fmt.Errorf("unable to create target file (%s): %w", dst, err)
	}
	return count, nil
}

func rewriteEntry(w *fixzip.Writer, file *fixzip.File, fn RewriteFunc) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return err
	}

	if data, err = fn(file.Name, data); err != nil {
		return err
	}

	dst, err := w.CreateHeader(&fixzip.FileHeader{
		Name:     file.Name,
		Comment:  file.Comment,
		Method:   file.Method,
		Modified: file.Modified,
	})
	if err != nil {
		return err
	}
	_, err = dst.Write(data)
	return err
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
