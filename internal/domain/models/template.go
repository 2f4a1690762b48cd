package models

// DocumentTemplate is an immutable seed used to instantiate a new Document.
// Content may contain the ${id} placeholder, substituted with the generated
// document id at instantiation time.
type DocumentTemplate struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Type        DocumentType `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
	Content     string       `json:"content" yaml:"content"`
}

// AssistantPrompt is a canned request surfaced to the user as a shortcut.
type AssistantPrompt struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category" yaml:"category"`
}
