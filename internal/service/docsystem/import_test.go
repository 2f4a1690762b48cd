package docsystem

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"medidoc/internal/domain"
	"medidoc/internal/domain/models"
	"medidoc/internal/domain/services"
)

func newTestImporter(t *testing.T) (services.ImportService, services.DocumentStore) {
	t.Helper()

	store := newTestStore(t, t.TempDir())
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewImportService(store, NewContentAnalyzer(), logger), store
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestImportFile(t *testing.T) {
	importer, store := newTestImporter(t)
	path := writeTempFile(t, "cleaning-sop.md", "# Cleaning SOP\n\nWipe down all surfaces.")

	doc, err := importer.ImportFile(context.Background(), path, "")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	if doc.Title != "cleaning-sop" {
		t.Errorf("title = %q, want cleaning-sop", doc.Title)
	}
	if doc.Type != models.TypeCustom {
		t.Errorf("type = %q, want %q (default)", doc.Type, models.TypeCustom)
	}
	if doc.Version != "1.0" {
		t.Errorf("version = %q, want 1.0", doc.Version)
	}
	if doc.WordCount != 7 {
		t.Errorf("word count = %d, want 7", doc.WordCount)
	}

	// The import landed in the store and became current
	if current := store.Current(); current == nil || current.ID != doc.ID {
		t.Error("imported document is not current")
	}
}

func TestImportFile_ExplicitType(t *testing.T) {
	importer, _ := newTestImporter(t)
	path := writeTempFile(t, "ifu.txt", "instructions for use")

	doc, err := importer.ImportFile(context.Background(), path, models.TypeUserManual)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if doc.Type != models.TypeUserManual {
		t.Errorf("type = %q, want %q", doc.Type, models.TypeUserManual)
	}
}

func TestImportFile_Rejections(t *testing.T) {
	importer, _ := newTestImporter(t)

	tests := []struct {
		name    string
		path    string
		docType models.DocumentType
	}{
		{
			name: "unsupported extension",
			path: writeTempFile(t, "firmware.bin", "binary"),
		},
		{
			name: "missing file",
			path: filepath.Join(t.TempDir(), "absent.md"),
		},
		{
			name:    "unknown document type",
			path:    writeTempFile(t, "note.md", "text"),
			docType: models.DocumentType("Blueprint"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.ImportFile(context.Background(), tt.path, tt.docType)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("ImportFile() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCanImport(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"report.md", true},
		{"report.MD", true},
		{"notes.txt", true},
		{"notes.markdown", true},
		{"image.png", false},
		{"archive.zip", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := CanImport(tt.filename); got != tt.want {
			t.Errorf("CanImport(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
