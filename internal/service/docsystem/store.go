package docsystem

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"medidoc/internal/config"
	"medidoc/internal/domain"
	"medidoc/internal/domain/models"
	"medidoc/internal/domain/repositories"
	"medidoc/internal/domain/services"
)

// DocumentsBlobKey is the well-known key the serialized document
// collection is persisted under.
const DocumentsBlobKey = "medidoc-documents"

// documentStore implements the DocumentStore interface. It owns the
// in-memory collection and the current-document pointer; every mutating
// operation rewrites the whole collection through the blob repository.
//
// Mutations apply to memory first. A persistence failure is reported to
// the caller but does not roll back: for a single-user session the
// in-memory state stays authoritative.
type documentStore struct {
	blobs    repositories.BlobRepository
	registry services.TemplateRegistry
	analyzer services.ContentAnalyzer
	logger   *slog.Logger

	mu        sync.RWMutex
	documents []models.Document
	currentID string // empty = none
}

// NewDocumentStore creates a new document store.
func NewDocumentStore(
	blobs repositories.BlobRepository,
	registry services.TemplateRegistry,
	analyzer services.ContentAnalyzer,
	logger *slog.Logger,
) services.DocumentStore {
	return &documentStore{
		blobs:    blobs,
		registry: registry,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Load restores the persisted collection. A blob that was never written
// seeds the store with one document from the first catalog template. A
// corrupt blob leaves the store empty and returns a persistence error the
// caller should surface as a warning; the session continues either way.
func (s *documentStore) Load(ctx context.Context) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.blobs.Load(ctx, DocumentsBlobKey)
	if err != nil {
		s.logger.Error("failed to load documents", "error", err)
		s.documents = nil
		s.currentID = ""
		return nil, err
	}

	if !ok {
		return s.seedLocked(ctx)
	}

	var docs []models.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		s.logger.Error("persisted documents are corrupt", "error", err)
		s.documents = nil
		s.currentID = ""
		return nil, &domain.PersistenceError{Message: "decode persisted documents", Err: err}
	}

	s.documents = docs
	if len(docs) > 0 {
		s.currentID = docs[0].ID
	} else {
		s.currentID = ""
	}

	s.logger.Info("documents loaded", "count", len(docs))
	return s.listLocked(), nil
}

// seedLocked instantiates the first catalog template into an otherwise
// empty store. Callers hold s.mu.
func (s *documentStore) seedLocked(ctx context.Context) ([]models.Document, error) {
	templates := s.registry.List()
	if len(templates) == 0 {
		s.documents = nil
		s.currentID = ""
		return nil, nil
	}

	doc, err := s.registry.Instantiate(templates[0].ID)
	if err != nil {
		return nil, err
	}

	s.documents = []models.Document{*doc}
	s.currentID = doc.ID
	s.logger.Info("seeded store from template", "template_id", templates[0].ID, "document_id", doc.ID)

	if err := s.persistLocked(ctx); err != nil {
		return s.listLocked(), err
	}
	return s.listLocked(), nil
}

// List returns the documents in insertion order.
func (s *documentStore) List() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

func (s *documentStore) listLocked() []models.Document {
	out := make([]models.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// Get retrieves one document by id.
func (s *documentStore) Get(id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		doc := s.documents[i]
		return &doc, nil
	}
	return nil, &domain.NotFoundError{Resource: "document", ID: id}
}

// Current returns the current document, or nil if none.
func (s *documentStore) Current() *models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(s.currentID); i >= 0 {
		doc := s.documents[i]
		return &doc
	}
	return nil
}

// SetCurrent changes the current-document pointer only; the collection on
// disk is unchanged by a pointer move.
func (s *documentStore) SetCurrent(doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc == nil {
		s.currentID = ""
		return nil
	}
	if s.indexLocked(doc.ID) < 0 {
		return &domain.NotFoundError{Resource: "document", ID: doc.ID}
	}
	s.currentID = doc.ID
	return nil
}

// Create instantiates templateID, appends the result, makes it current
// and persists.
func (s *documentStore) Create(ctx context.Context, templateID string) (*models.Document, error) {
	doc, err := s.registry.Instantiate(templateID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents = append(s.documents, *doc)
	s.currentID = doc.ID

	s.logger.Info("document created", "document_id", doc.ID, "template_id", templateID, "type", doc.Type)

	if err := s.persistLocked(ctx); err != nil {
		return doc, err
	}
	return doc, nil
}

// Append adds an externally built document, used by file import. The
// document becomes current and the collection is persisted.
func (s *documentStore) Append(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if doc == nil || doc.ID == "" {
		return nil, &domain.ValidationError{Message: "document with id is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(doc.ID) >= 0 {
		return nil, &domain.ValidationError{Message: "document id already exists: " + doc.ID}
	}

	s.documents = append(s.documents, *doc)
	s.currentID = doc.ID

	s.logger.Info("document appended", "document_id", doc.ID, "type", doc.Type)

	if err := s.persistLocked(ctx); err != nil {
		return doc, err
	}
	return doc, nil
}

// Update replaces the stored document matching doc.ID. ID and CreatedAt
// are immutable; UpdatedAt and WordCount are recomputed here, never
// trusted from the caller.
func (s *documentStore) Update(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if doc == nil {
		return nil, &domain.ValidationError{Message: "document is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(doc.ID)
	if i < 0 {
		return nil, &domain.NotFoundError{Resource: "document", ID: doc.ID}
	}

	updated := s.documents[i]
	updated.Title = doc.Title
	updated.Content = doc.Content
	updated.Type = doc.Type
	updated.Version = doc.Version
	updated.UpdatedAt = time.Now()
	updated.WordCount = s.analyzer.CountWords(updated.Content)

	s.documents[i] = updated
	s.currentID = updated.ID

	if err := s.persistLocked(ctx); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// UpdateContent replaces only the body of the document matching id.
func (s *documentStore) UpdateContent(ctx context.Context, id, content string) (*models.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	doc.Content = content
	return s.Update(ctx, doc)
}

// UpdateTitle replaces only the title of the document matching id.
func (s *documentStore) UpdateTitle(ctx context.Context, id, title string) (*models.Document, error) {
	if err := validation.Validate(title,
		validation.Required,
		validation.Length(1, config.MaxDocumentTitleLength),
	); err != nil {
		return nil, &domain.ValidationError{Message: "title: " + err.Error()}
	}
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	doc.Title = title
	return s.Update(ctx, doc)
}

// Delete removes the document matching id. If it was current, current
// falls back to the first remaining document or to none.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return &domain.NotFoundError{Resource: "document", ID: id}
	}

	s.documents = append(s.documents[:i], s.documents[i+1:]...)

	if s.currentID == id {
		if len(s.documents) > 0 {
			s.currentID = s.documents[0].ID
		} else {
			s.currentID = ""
		}
	}

	s.logger.Info("document deleted", "document_id", id, "remaining", len(s.documents))

	return s.persistLocked(ctx)
}

// persistLocked serializes the whole collection and rewrites the blob.
// Callers hold s.mu.
func (s *documentStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.documents)
	if err != nil {
		s.logger.Error("failed to encode documents", "error", err)
		return &domain.PersistenceError{Message: "encode documents", Err: err}
	}

	if err := s.blobs.Save(ctx, DocumentsBlobKey, data); err != nil {
		s.logger.Error("failed to save documents", "error", err)
		return err
	}
	return nil
}

// indexLocked returns the position of id in the collection, or -1.
// Callers hold s.mu.
func (s *documentStore) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.documents {
		if s.documents[i].ID == id {
			return i
		}
	}
	return -1
}
