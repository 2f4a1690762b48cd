package docsystem

import (
	"crypto/rand"
	"embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"medidoc/internal/domain"
	"medidoc/internal/domain/models"
	"medidoc/internal/domain/services"
)

//go:embed catalog/*.yaml
var catalogFiles embed.FS

// idAlphabet is the alphabet for generated document ids. Nine characters
// from a 36-symbol alphabet make collisions negligible for a single-user
// document set.
const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 9
)

// placeholderToken is substituted with the generated document id when a
// template is instantiated.
const placeholderToken = "${id}"

type templateCatalog struct {
	Templates []models.DocumentTemplate `yaml:"templates"`
}

type promptCatalog struct {
	Prompts []models.AssistantPrompt `yaml:"prompts"`
}

// templateRegistry is the read-only catalog, loaded once from the embedded
// YAML files at construction. Templates are never mutated after load.
type templateRegistry struct {
	templates []models.DocumentTemplate
	prompts   []models.AssistantPrompt
	analyzer  services.ContentAnalyzer
	mu        sync.RWMutex
}

// NewTemplateRegistry loads the embedded catalogs.
func NewTemplateRegistry(analyzer services.ContentAnalyzer) (services.TemplateRegistry, error) {
	r := &templateRegistry{analyzer: analyzer}

	data, err := catalogFiles.ReadFile("catalog/templates.yaml")
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	var templates templateCatalog
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("unmarshal template catalog: %w", err)
	}
	r.templates = templates.Templates

	data, err = catalogFiles.ReadFile("catalog/prompts.yaml")
	if err != nil {
		return nil, fmt.Errorf("read prompt catalog: %w", err)
	}
	var prompts promptCatalog
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("unmarshal prompt catalog: %w", err)
	}
	r.prompts = prompts.Prompts

	if len(r.templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}

	return r, nil
}

var _ services.TemplateRegistry = (*templateRegistry)(nil)

// List returns every template in catalog order.
func (r *templateRegistry) List() []models.DocumentTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DocumentTemplate, len(r.templates))
	copy(out, r.templates)
	return out
}

// Get retrieves one template by id.
func (r *templateRegistry) Get(id string) (*models.DocumentTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.templates {
		if r.templates[i].ID == id {
			t := r.templates[i]
			return &t, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "template", ID: id}
}

// Instantiate produces a new Document from the template identified by id.
func (r *templateRegistry) Instantiate(id string) (*models.Document, error) {
	template, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	docID, err := GenerateDocumentID()
	if err != nil {
		return nil, err
	}

	content := strings.ReplaceAll(template.Content, placeholderToken, docID)
	now := time.Now()

	return &models.Document{
		ID:        docID,
		Title:     template.Title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Type:      template.Type,
		Version:   "1.0",
		WordCount: r.analyzer.CountWords(content),
	}, nil
}

// Prompts returns the canned assistant prompts in catalog order.
func (r *templateRegistry) Prompts() []models.AssistantPrompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AssistantPrompt, len(r.prompts))
	copy(out, r.prompts)
	return out
}

// GenerateDocumentID returns a fresh random document id.
func GenerateDocumentID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate document id: %w", err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}
