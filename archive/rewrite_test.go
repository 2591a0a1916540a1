package archive

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fixzip "github.com/hidez8891/zip"
)

type zipEntry struct {
	name    string
	method  uint16
	content string
}

func writeZip(t *testing.T, path string, entries []zipEntry) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer f.Close()

	w := fixzip.NewWriter(f)
	for _, e := range entries {
		fw, err := w.CreateHeader(&fixzip.FileHeader{Name: e.name, Method: e.method})
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
}

func readZip(t *testing.T, path string) []zipEntry {
	t.Helper()
	r, err := fixzip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open zip: %v", err)
	}
	defer r.Close()

	var out []zipEntry
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read %s: %v", f.Name, err)
		}
		out = append(out, zipEntry{name: f.Name, method: f.Method, content: string(data)})
	}
	return out
}

var epub = []zipEntry{
	{"mimetype", fixzip.Store, "application/epub+zip"},
	{"META-INF/", fixzip.Store, ""},
	{"META-INF/container.xml", fixzip.Deflate, "<container/>"},
	{"OEBPS/style.css", fixzip.Deflate, ".App { color: red }"},
	{"OEBPS/text/ch1.xhtml", fixzip.Deflate, `<p class="App"/>`},
	{"OEBPS/raw.css", fixzip.Store, ".Raw {}"},
}

func isCSS(name string) bool {
	return strings.HasSuffix(name, ".css")
}

func upper(_ string, data []byte) ([]byte, error) {
	return bytes.ToUpper(data), nil
}

func TestTransform(t *testing.T) {
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "book.epub"), filepath.Join(dir, "out.epub")
	writeZip(t, src, epub)

	n, err := Transform(src, dst, isCSS, upper)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Transform() rewrote %d entries, want 2", n)
	}

	got := readZip(t, dst)
	if len(got) != len(epub) {
		t.Fatalf("got %d entries, want %d", len(got), len(epub))
	}
	for i, e := range epub {
		want := e
		if isCSS(e.name) {
			want.content = strings.ToUpper(e.content)
		}
		if got[i] != want {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want)
		}
	}

	// source is untouched
	if orig := readZip(t, src); orig[3].content != epub[3].content {
		t.Errorf("source changed: %q", orig[3].content)
	}
}

func TestTransform_InPlace(t *testing.T) {
	src := filepath.Join(t.TempDir(), "book.epub")
	writeZip(t, src, epub)

	if _, err := Transform(src, src, isCSS, upper); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	got := readZip(t, src)
	if got[3].content != ".APP { COLOR: RED }" {
		t.Errorf("entry = %q", got[3].content)
	}

	leftovers, _ := filepath.Glob(src + ".*.tmp")
	if len(leftovers) != 0 {
		t.Errorf("temporary files left: %v", leftovers)
	}
}

func TestTransform_RewriteError(t *testing.T) {
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "book.epub"), filepath.Join(dir, "out.epub")
	writeZip(t, src, epub)

	errBoom := errors.New("boom")
	_, err := Transform(src, dst, isCSS, func(name string, _ []byte) ([]byte, error) {
		if name == "OEBPS/raw.css" {
			return nil, errBoom
		}
		return nil, nil
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("Transform() error = %v, want %v", err, errBoom)
	}
	if !strings.Contains(err.Error(), "OEBPS/raw.css") {
		t.Errorf("error does not name the entry: %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("destination must not be created on failure")
	}
}

func TestTransform_UnsafePath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	writeZip(t, src, []zipEntry{
		{"a.css", fixzip.Deflate, ".a{}"},
		{"../../etc/evil.css", fixzip.Deflate, ".b{}"},
	})

	_, err := Transform(src, filepath.Join(dir, "out.zip"), isCSS, upper)
	if err == nil || !strings.Contains(err.Error(), "unsafe path") {
		t.Errorf("Transform() error = %v, want unsafe path error", err)
	}
}

func TestTransform_InvalidArchive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "not.zip")
	if err := os.WriteFile(src, []byte("not a zip file"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Transform(src, filepath.Join(dir, "out.zip"), isCSS, upper); err == nil {
		t.Error("expected error for invalid archive")
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"OEBPS/style.css", true},
		{"a..b/c.css", true},
		{"../c.css", false},
		{"a/../../c.css", false},
		{"/etc/passwd", false},
		{`\windows\system32`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
