package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"medidoc/internal/domain"
	"medidoc/internal/domain/models"
	"medidoc/internal/domain/services"
)

// TextGenerator is the transport the gateway speaks through: one prompt
// in, one raw reply out.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// gateway implements the AssistantGateway interface on top of a
// TextGenerator. It owns prompt construction and reply validation; it has
// no opinion on what happens with an accepted edit.
type gateway struct {
	generator TextGenerator
	logger    *slog.Logger
}

// NewGateway creates a new assistant gateway.
func NewGateway(generator TextGenerator, logger *slog.Logger) services.AssistantGateway {
	return &gateway{
		generator: generator,
		logger:    logger,
	}
}

// GenerateContent passes a free-form prompt straight through.
func (g *gateway) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reply, err := g.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", &domain.TransportError{Message: "assistant call failed", Err: err}
	}
	return reply, nil
}

// GenerateEditResponse asks the model for a chat-or-edit reply. Transport
// failures are hard errors. A reply that is not the requested JSON shape
// is not: it degrades to a chat variant carrying the raw reply text.
func (g *gateway) GenerateEditResponse(ctx context.Context, req *models.AIEditRequest) (*models.AIEditResponse, error) {
	if err := validateEditRequest(req); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	raw, err := g.generator.GenerateContent(ctx, buildEditPrompt(req))
	if err != nil {
		return nil, &domain.TransportError{Message: "assistant call failed", Err: err}
	}

	response, err := parseEditResponse(raw)
	if err != nil {
		g.logger.Warn("assistant reply is not a valid edit response, downgrading to chat",
			"error", err,
			"reply_length", len(raw),
		)
		return &models.AIEditResponse{
			Type:    models.ResponseChat,
			Message: raw,
		}, nil
	}

	return response, nil
}

func validateEditRequest(req *models.AIEditRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.UserRequest, validation.Required),
	)
}

// buildEditPrompt embeds the whole document and the user's instruction in
// one prompt and pins the reply to the chat/edit JSON contract.
func buildEditPrompt(req *models.AIEditRequest) string {
	var b strings.Builder

	b.WriteString("You are an assistant for medical device regulatory documentation. ")
	b.WriteString(preambleFor(req.DocumentType))
	b.WriteString("\n\nCurrent document content:\n---\n")
	b.WriteString(req.DocumentContent)
	b.WriteString("\n---\n\nUser request: ")
	b.WriteString(req.UserRequest)
	b.WriteString("\n\nRespond with a single JSON object and no surrounding prose or code fences.\n")
	b.WriteString("If the request asks you to change the document, respond with:\n")
	b.WriteString(`{"type":"edit","message":"<summary of the changes>","editContent":{"content":"<the complete revised document>","changes":["<change 1>","<change 2>"]}}`)
	b.WriteString("\nThe editContent.content field must contain the entire document, not a fragment.\n")
	b.WriteString("Otherwise respond with:\n")
	b.WriteString(`{"type":"chat","message":"<your answer>"}`)

	return b.String()
}

// rawEditResponse mirrors the reply contract with pointer fields so a
// missing key is distinguishable from an empty value.
type rawEditResponse struct {
	Type        string          `json:"type"`
	Message     *string         `json:"message"`
	EditContent *rawEditContent `json:"editContent"`
}

type rawEditContent struct {
	Content *string  `json:"content"`
	Changes []string `json:"changes"`
}

// parseEditResponse extracts the first top-level JSON object from the raw
// reply, decodes it and checks the tagged-union shape.
func parseEditResponse(raw string) (*models.AIEditResponse, error) {
	object, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var parsed rawEditResponse
	if err := json.Unmarshal([]byte(object), &parsed); err != nil {
		return nil, fmt.Errorf("decode reply object: %w", err)
	}

	if err := validateEditResponse(&parsed); err != nil {
		return nil, err
	}

	response := &models.AIEditResponse{
		Type:    models.AIResponseType(parsed.Type),
		Message: *parsed.Message,
	}
	if response.Type == models.ResponseEdit {
		response.EditContent = &models.EditContent{
			Content: *parsed.EditContent.Content,
			Changes: parsed.EditContent.Changes,
		}
	}
	return response, nil
}

// validateEditResponse enforces the contract: type is exactly "chat" or
// "edit", message is present, and an edit carries a content string plus a
// list of change descriptions.
func validateEditResponse(r *rawEditResponse) error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Type, validation.Required,
			validation.In(string(models.ResponseChat), string(models.ResponseEdit))),
		validation.Field(&r.Message, validation.NotNil),
	)
	if err != nil {
		return err
	}

	if r.Type != string(models.ResponseEdit) {
		return nil
	}

	if r.EditContent == nil {
		return fmt.Errorf("editContent: required for edit replies")
	}
	return validation.ValidateStruct(r.EditContent,
		validation.Field(&r.EditContent.Content, validation.NotNil),
		validation.Field(&r.EditContent.Changes, validation.NotNil),
	)
}

// extractJSONObject returns the first balanced top-level {...} substring,
// tolerating prose before and after it. Braces inside JSON strings do not
// count toward the balance.
func extractJSONObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return "", fmt.Errorf("reply contains no JSON object")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// string content, braces do not count
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("reply contains an unterminated JSON object")
}
