package config

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestReport_Close(t *testing.T) {
	dir := t.TempDir()

	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stored := filepath.Join(dir, "stored.txt")
	if err := os.WriteFile(stored, []byte("stored file"), 0644); err != nil {
		t.Fatal(err)
	}
	rpt.Store("file.txt", stored)
	rpt.StoreData("blob.txt", []byte("blob"))
	rpt.StoreData("blob.txt", []byte("second blob"))
	rpt.Store("missing.txt", filepath.Join(dir, "does-not-exist"))

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := zip.OpenReader(rpt.Name())
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer r.Close()

	contents := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		contents[f.Name] = string(data)
	}

	if _, ok := contents["MANIFEST"]; !ok {
		t.Error("report has no MANIFEST")
	}
	if contents["file.txt"] != "stored file" {
		t.Errorf("file.txt = %q", contents["file.txt"])
	}
	if contents["blob.txt"] != "blob" {
		t.Errorf("blob.txt = %q", contents["blob.txt"])
	}
	// 4 entries: manifest, file, two blobs - missing file is skipped
	if len(contents) != 4 {
		t.Errorf("report has %d entries, want 4", len(contents))
	}
}

func TestReport_NilIsNoop(t *testing.T) {
	var rpt *Report
	rpt.Store("a", "b")
	rpt.StoreData("a", nil)
	if rpt.Name() != "" {
		t.Error("nil report has name")
	}
	if err := rpt.Close(); err != nil {
		t.Errorf("Close() on nil report = %v", err)
	}
}

func TestReport_Directory(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(filepath.Join(docs, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.txt", "sub/b.txt"} {
		if err := os.WriteFile(filepath.Join(docs, filepath.FromSlash(name)), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}

	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	rpt.Store("documents", docs)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rpt.StoreData(fmt.Sprintf("chapters/%02d.txt", i), []byte("chapter"))
		}()
	}
	wg.Wait()

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := zip.OpenReader(rpt.Name())
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer r.Close()

	names := make(map[string]bool)
	for _, f := range r.File {
		names[f.Name] = true
	}
	for _, want := range []string{"documents/a.txt", "documents/sub/b.txt", "chapters/00.txt", "chapters/07.txt"} {
		if !names[want] {
			t.Errorf("report has no %s", want)
		}
	}
}
