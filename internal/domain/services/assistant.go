package services

import (
	"context"

	"medidoc/internal/domain/models"
)

// AssistantGateway wraps the single outbound generative-text exchange.
type AssistantGateway interface {
	// GenerateContent sends one free-form prompt and returns the raw
	// model reply. Transport and envelope failures are hard errors.
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// GenerateEditResponse asks the model to either answer in chat form
	// or propose a full-document replacement. A malformed model reply is
	// never an error: it degrades to a chat variant wrapping the raw
	// reply text. Transport failures are hard errors.
	GenerateEditResponse(ctx context.Context, req *models.AIEditRequest) (*models.AIEditResponse, error)
}
