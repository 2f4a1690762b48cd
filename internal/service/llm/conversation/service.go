// Package conversation turns user utterances into chat replies or staged
// document edits. It owns the per-turn state machine and the append-only
// message log; document mutation always goes through the store.
package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"medidoc/internal/config"
	"medidoc/internal/domain"
	"medidoc/internal/domain/models"
	"medidoc/internal/domain/services"
)

// State is the conversation's position in the per-turn state machine.
type State string

const (
	// StateIdle means no request is in flight
	StateIdle State = "idle"
	// StateSending means a request is outstanding; further sends are rejected
	StateSending State = "sending"
)

// welcomeMessage opens every conversation.
const welcomeMessage = "Hi, I'm your medical device documentation assistant. " +
	"I can help you create, edit, and improve your compliance documents. " +
	"What would you like to help with today?"

// editMessagePrefix introduces an assistant message that carries a staged
// document edit.
const editMessagePrefix = "I've analyzed your request and prepared some changes to the document. "

// TurnResult is what one completed Send produced.
type TurnResult struct {
	Reply *models.ChatMessage
	// Edit is non-nil when the assistant proposed a document change that
	// now awaits ApproveEdit or RejectEdit.
	Edit *models.AIEditResponse
}

// Service orchestrates one conversation. Safe for concurrent use, though
// only one Send may be outstanding at a time.
type Service struct {
	store   services.DocumentStore
	gateway services.AssistantGateway
	logger  *slog.Logger

	mu          sync.Mutex
	state       State
	messages    []models.ChatMessage
	pendingEdit *models.AIEditResponse
}

// NewService creates a conversation seeded with the welcome message.
func NewService(store services.DocumentStore, gateway services.AssistantGateway, logger *slog.Logger) *Service {
	s := &Service{
		store:   store,
		gateway: gateway,
		logger:  logger,
		state:   StateIdle,
	}
	s.messages = append(s.messages, newMessage(welcomeMessage, models.RoleAssistant))
	return s
}

// State returns the current state of the turn state machine.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns the conversation log in insertion order.
func (s *Service) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// PendingEdit returns the staged edit awaiting approval, or nil.
func (s *Service) PendingEdit() *models.AIEditResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingEdit
}

// Send runs one turn: append the user message, call the assistant, append
// its reply. With a current document the turn may stage an edit; without
// one it is plain chat. On failure the turn aborts but the history,
// including the user message, is preserved.
func (s *Service) Send(ctx context.Context, text string) (*TurnResult, error) {
	if err := validateUserText(text); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	current, err := s.begin(text)
	if err != nil {
		return nil, err
	}

	if current == nil {
		return s.plainChatTurn(ctx, text)
	}
	return s.editTurn(ctx, current, text)
}

// begin transitions Idle -> Sending and appends the user message. It
// returns the current document snapshot the turn operates on.
func (s *Service) begin(text string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSending {
		return nil, domain.ErrBusy
	}
	if s.pendingEdit != nil {
		return nil, &domain.ValidationError{Message: "an edit suggestion is awaiting approval"}
	}

	s.state = StateSending
	s.messages = append(s.messages, newMessage(text, models.RoleUser))

	return s.store.Current(), nil
}

func (s *Service) plainChatTurn(ctx context.Context, text string) (*TurnResult, error) {
	reply, err := s.gateway.GenerateContent(ctx, text)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	msg := s.finish(reply, nil)
	return &TurnResult{Reply: msg}, nil
}

func (s *Service) editTurn(ctx context.Context, current *models.Document, text string) (*TurnResult, error) {
	response, err := s.gateway.GenerateEditResponse(ctx, &models.AIEditRequest{
		DocumentContent: current.Content,
		UserRequest:     text,
		DocumentType:    current.Type,
	})
	if err != nil {
		s.fail(err)
		return nil, err
	}

	if response.IsEdit() {
		msg := s.finish(editMessagePrefix+response.Message, response)
		s.logger.Info("edit staged",
			"document_id", current.ID,
			"changes", len(response.EditContent.Changes),
		)
		return &TurnResult{Reply: msg, Edit: response}, nil
	}

	msg := s.finish(response.Message, nil)
	return &TurnResult{Reply: msg}, nil
}

// finish appends the assistant reply, stages an edit if one was proposed
// and returns to Idle.
func (s *Service) finish(content string, edit *models.AIEditResponse) *models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := newMessage(content, models.RoleAssistant)
	s.messages = append(s.messages, msg)
	s.pendingEdit = edit
	s.state = StateIdle

	return &msg
}

// fail aborts the turn: history is preserved, no reply is appended, the
// state machine returns to Idle. The error surfaces to the caller as a
// notification, never as a crash.
func (s *Service) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Error("assistant turn failed", "error", err)
	s.state = StateIdle
}

// ApproveEdit writes the staged edit's whole content into the current
// document through the store and clears the stage. The itemized change
// list is advisory; the content replacement is what gets applied.
func (s *Service) ApproveEdit(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	edit := s.pendingEdit
	s.mu.Unlock()

	if edit == nil || edit.EditContent == nil {
		return nil, &domain.ValidationError{Message: "no edit suggestion to approve"}
	}

	current := s.store.Current()
	if current == nil {
		return nil, &domain.NotFoundError{Resource: "document"}
	}

	updated, err := s.store.UpdateContent(ctx, current.ID, edit.EditContent.Content)
	if updated != nil {
		// The in-memory document changed even if persisting it failed;
		// the stage is consumed either way.
		s.mu.Lock()
		s.pendingEdit = nil
		s.mu.Unlock()
	}
	if err != nil {
		return updated, err
	}

	s.logger.Info("edit applied", "document_id", current.ID, "word_count", updated.WordCount)
	return updated, nil
}

// RejectEdit discards the staged edit without touching the document.
func (s *Service) RejectEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingEdit != nil {
		s.logger.Info("edit dismissed")
	}
	s.pendingEdit = nil
}

func validateUserText(text string) error {
	return validation.Validate(text,
		validation.Required,
		validation.Length(1, config.MaxUserRequestLength),
	)
}

func newMessage(content string, role models.Role) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.New().String(),
		Content:   content,
		Role:      role,
		Timestamp: time.Now(),
	}
}
