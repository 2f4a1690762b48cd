package services

import (
	"context"

	"medidoc/internal/domain/models"
)

// TemplateRegistry is the read-only catalog of document templates.
type TemplateRegistry interface {
	// List returns every template in catalog order.
	List() []models.DocumentTemplate

	// Get retrieves one template by id.
	// Returns domain.ErrNotFound if no template matches.
	Get(id string) (*models.DocumentTemplate, error)

	// Instantiate produces a new Document from the template: fresh unique
	// id, ${id} placeholder substituted, version "1.0", timestamps set,
	// word count computed.
	Instantiate(id string) (*models.Document, error)

	// Prompts returns the canned assistant prompts in catalog order.
	Prompts() []models.AssistantPrompt
}

// DocumentStore owns the document collection and the current-document
// pointer. All mutation goes through these operations; each mutating call
// persists the whole collection atomically.
type DocumentStore interface {
	// Load restores persisted state. A missing blob seeds the store with
	// one document from the first catalog template. A corrupt blob is
	// reported as a persistence error but leaves the store usable.
	Load(ctx context.Context) ([]models.Document, error)

	// List returns the documents in insertion order.
	List() []models.Document

	// Get retrieves one document by id.
	Get(id string) (*models.Document, error)

	// Current returns the current document, or nil if none.
	Current() *models.Document

	// SetCurrent changes the current-document pointer. A nil document
	// clears it. The referenced document must exist in the store.
	SetCurrent(doc *models.Document) error

	// Create instantiates templateID, appends the result, sets it as
	// current and persists.
	Create(ctx context.Context, templateID string) (*models.Document, error)

	// Append adds an externally built document (file import), sets it as
	// current and persists. The document id must not collide.
	Append(ctx context.Context, doc *models.Document) (*models.Document, error)

	// Update replaces the stored document matching doc.ID, recomputing
	// UpdatedAt and WordCount, sets it as current and persists.
	// Returns domain.ErrNotFound if the id is absent.
	Update(ctx context.Context, doc *models.Document) (*models.Document, error)

	// UpdateContent replaces only the body of the document matching id.
	UpdateContent(ctx context.Context, id, content string) (*models.Document, error)

	// UpdateTitle replaces only the title of the document matching id.
	UpdateTitle(ctx context.Context, id, title string) (*models.Document, error)

	// Delete removes the document matching id. If it was current, current
	// falls back to the first remaining document or to none.
	Delete(ctx context.Context, id string) error
}

// ImportService turns local files into documents in the store.
type ImportService interface {
	// ImportFile reads path as text and creates a document from it.
	// docType defaults to Custom when empty.
	ImportFile(ctx context.Context, path string, docType models.DocumentType) (*models.Document, error)
}

// ContentAnalyzer handles content analysis operations.
type ContentAnalyzer interface {
	// CountWords counts whitespace-separated tokens in content
	CountWords(content string) int

	// CleanMarkdown removes markdown syntax from content
	CleanMarkdown(content string) string
}
