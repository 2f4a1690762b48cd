package models

// AIResponseType tags the two variants an assistant reply can take.
type AIResponseType string

const (
	// ResponseChat carries conversational text only, no document mutation
	ResponseChat AIResponseType = "chat"
	// ResponseEdit proposes a full replacement document body
	ResponseEdit AIResponseType = "edit"
)

// EditContent is the payload of an edit-variant reply. Content is the
// authoritative replacement body; Changes is an advisory, ordered summary
// of what the model says it changed.
type EditContent struct {
	Content string   `json:"content"`
	Changes []string `json:"changes"`
}

// AIEditResponse is the tagged union produced by the AI gateway.
// EditContent is non-nil exactly when Type is ResponseEdit.
type AIEditResponse struct {
	Type        AIResponseType `json:"type"`
	Message     string         `json:"message"`
	EditContent *EditContent   `json:"editContent,omitempty"`
}

// IsEdit reports whether the reply proposes a document edit.
func (r *AIEditResponse) IsEdit() bool {
	return r.Type == ResponseEdit && r.EditContent != nil
}

// AIEditRequest is the input to the gateway's edit flow: the full current
// document body plus the user's free-text instruction.
type AIEditRequest struct {
	DocumentContent string
	UserRequest     string
	DocumentType    DocumentType // optional, selects a type-specific preamble
}
