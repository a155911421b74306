// Package testutil provides fixtures shared by tests: minimal workbook
// payloads and a fake generation service.
package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WorkbookBytes returns a minimal OOXML workbook archive. Its content is
// enough for media-type sniffing to identify it as a spreadsheet; it is not a
// valid workbook for spreadsheet software.
func WorkbookBytes(t testing.TB) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships/>`},
		{"xl/workbook.xml", `<?xml version="1.0" encoding="UTF-8"?><workbook/>`},
	}
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		if err != nil {
			t.Fatalf("zip header %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatalf("zip write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// WriteWorkbook writes a workbook fixture named name into dir and returns its path.
func WriteWorkbook(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, WorkbookBytes(t), 0o600); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return path
}

// WriteFile writes arbitrary content into dir and returns its path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
