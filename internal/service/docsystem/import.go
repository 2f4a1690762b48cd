package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"medidoc/internal/config"
	"medidoc/internal/domain"
	"medidoc/internal/domain/models"
	"medidoc/internal/domain/services"
)

// importableExtensions are the text-like files accepted for import.
var importableExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".text":     true,
}

// importService implements the ImportService interface
type importService struct {
	store    services.DocumentStore
	analyzer services.ContentAnalyzer
	logger   *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(
	store services.DocumentStore,
	analyzer services.ContentAnalyzer,
	logger *slog.Logger,
) services.ImportService {
	return &importService{
		store:    store,
		analyzer: analyzer,
		logger:   logger,
	}
}

// CanImport returns true if the file extension is accepted for import.
func CanImport(filename string) bool {
	return importableExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ImportFile reads path as text and derives a document from it: title from
// the file name, default type Custom, version "1.0", word count computed.
// The new document is appended to the store and becomes current.
func (s *importService) ImportFile(ctx context.Context, path string, docType models.DocumentType) (*models.Document, error) {
	if !CanImport(path) {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("unsupported file type %q, expected a text or markdown file", filepath.Ext(path)),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	if info.Size() > config.MaxImportFileSize {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("file exceeds import limit of %d bytes", config.MaxImportFileSize),
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	content := string(raw)

	if docType == "" {
		docType = models.TypeCustom
	}
	if !docType.Valid() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown document type %q", docType)}
	}

	id, err := GenerateDocumentID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &models.Document{
		ID:        id,
		Title:     titleFromFilename(path),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Type:      docType,
		Version:   "1.0",
		WordCount: s.analyzer.CountWords(content),
	}

	appended, err := s.store.Append(ctx, doc)
	if err != nil {
		return appended, err
	}

	s.logger.Info("file imported",
		"path", path,
		"document_id", doc.ID,
		"word_count", doc.WordCount,
	)
	return appended, nil
}

// titleFromFilename derives a document title from the file's base name.
func titleFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
