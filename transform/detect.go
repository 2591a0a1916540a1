package transform

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"
)

type fileKind int

const (
	kindOther fileKind = iota
	kindStylesheet
	kindMarkup
)

// kindOf selects processing by file extension, case insensitive.
func kindOf(name string, stylesheets, markup []string) fileKind {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return kindOther
	}
	match := func(s string) bool { return strings.ToLower(s) == ext }
	switch {
	case slices.ContainsFunc(stylesheets, match):
		return kindStylesheet
	case slices.ContainsFunc(markup, match):
		return kindMarkup
	}
	return kindOther
}

// isArchiveFile checks file signature, EPUB and other zip containers are
// recognized regardless of extension.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// enough for any matcher
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	head = head[:n]
	return filetype.Is(head, "epub") || filetype.Is(head, "zip"), nil
}
