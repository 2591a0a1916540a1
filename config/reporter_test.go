package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fixzip "github.com/hidez8891/zip"
)

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()
	r, err := fixzip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer r.Close()

	out := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Close(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	src := filepath.Join(dir, "site.css")
	if err := os.WriteFile(src, []byte(".App{}"), 0644); err != nil {
		t.Fatal(err)
	}
	logs := filepath.Join(dir, "logs")
	if err := os.MkdirAll(filepath.Join(logs, "old"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(logs, "old", "1.log"), []byte("one"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := r.StoreCopy("source", src); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	// later changes are not visible in the copy
	if err := os.WriteFile(src, []byte(".b3411db7{}"), 0644); err != nil {
		t.Fatal(err)
	}
	r.Store("result", src)
	r.Store("logs", logs)
	r.Store("missing", filepath.Join(dir, "absent"))
	r.StoreData("config/cssobf.yaml", []byte("version: 1\n"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got := readReport(t, r.Name())
	want := map[string]string{
		"source":             ".App{}",
		"result":             ".b3411db7{}",
		"logs/old/1.log":     "one",
		"config/cssobf.yaml": "version: 1\n",
	}
	for name, content := range want {
		if got[name] != content {
			t.Errorf("report entry %s = %q, want %q", name, got[name], content)
		}
	}
	if _, ok := got["missing"]; ok {
		t.Error("absent file must be skipped")
	}
	if !strings.Contains(got["MANIFEST"], "config/cssobf.yaml") {
		t.Errorf("MANIFEST does not list data entry:\n%s", got["MANIFEST"])
	}
}

func TestReport_StoreCopyVersioned(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.css")
	if err := os.WriteFile(src, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	r := &Report{entries: make(map[string]entry)}
	for range 2 {
		if err := r.StoreCopy("source", src); err != nil {
			t.Fatalf("StoreCopy() error = %v", err)
		}
	}
	if len(r.entries) != 2 {
		t.Errorf("entries = %d, want 2", len(r.entries))
	}
}

func TestReport_StoreDataTwicePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("x", []byte("1"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	r.StoreData("x", []byte("2"))
}

func TestReport_Nil(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "/nonexistent"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Error("Name on nil report should be empty")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
