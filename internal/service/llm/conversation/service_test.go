package conversation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"medidoc/internal/domain"
	"medidoc/internal/domain/models"
)

// fakeStore implements services.DocumentStore over a slice. Only the
// operations the conversation touches do real work.
type fakeStore struct {
	docs    []models.Document
	current *models.Document
	saveErr error
}

func (f *fakeStore) Load(context.Context) ([]models.Document, error) { return f.docs, nil }
func (f *fakeStore) List() []models.Document                         { return f.docs }

func (f *fakeStore) Get(id string) (*models.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "document", ID: id}
}

func (f *fakeStore) Current() *models.Document { return f.current }

func (f *fakeStore) SetCurrent(doc *models.Document) error {
	f.current = doc
	return nil
}

func (f *fakeStore) Create(context.Context, string) (*models.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Append(context.Context, *models.Document) (*models.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Update(context.Context, *models.Document) (*models.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) UpdateContent(_ context.Context, id, content string) (*models.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs[i].Content = content
			f.docs[i].WordCount = len(strings.Fields(content))
			f.current = &f.docs[i]
			if f.saveErr != nil {
				return &f.docs[i], f.saveErr
			}
			return &f.docs[i], nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "document", ID: id}
}

func (f *fakeStore) UpdateTitle(context.Context, string, string) (*models.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Delete(context.Context, string) error { return errors.New("not implemented") }

// fakeGateway returns scripted responses. release, when set, blocks the
// call until signalled so tests can observe the sending state.
type fakeGateway struct {
	chatReply string
	chatErr   error
	editResp  *models.AIEditResponse
	editErr   error
	release   chan struct{}

	mu          sync.Mutex
	lastRequest *models.AIEditRequest
}

func (f *fakeGateway) GenerateContent(context.Context, string) (string, error) {
	if f.release != nil {
		<-f.release
	}
	return f.chatReply, f.chatErr
}

func (f *fakeGateway) GenerateEditResponse(_ context.Context, req *models.AIEditRequest) (*models.AIEditResponse, error) {
	f.mu.Lock()
	f.lastRequest = req
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.editResp, f.editErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func storeWithDocument() *fakeStore {
	store := &fakeStore{
		docs: []models.Document{{
			ID:      "doc123abc",
			Title:   "Quality Manual",
			Content: "original body",
			Type:    models.TypeQualityManual,
		}},
	}
	store.current = &store.docs[0]
	return store
}

func TestNewService_WelcomeMessage(t *testing.T) {
	s := NewService(&fakeStore{}, &fakeGateway{}, testLogger())

	messages := s.Messages()
	if len(messages) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(messages))
	}
	if messages[0].Role != models.RoleAssistant {
		t.Errorf("role = %q, want assistant", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "documentation assistant") {
		t.Errorf("welcome content = %q", messages[0].Content)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
}

func TestSend_PlainChatWithoutCurrentDocument(t *testing.T) {
	gw := &fakeGateway{chatReply: "hello there"}
	s := NewService(&fakeStore{}, gw, testLogger())

	result, err := s.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if result.Reply.Content != "hello there" {
		t.Errorf("reply = %q", result.Reply.Content)
	}
	if result.Edit != nil {
		t.Error("plain chat must not stage an edit")
	}

	messages := s.Messages()
	if len(messages) != 3 {
		t.Fatalf("len(messages) = %d, want welcome + user + assistant", len(messages))
	}
	if messages[1].Role != models.RoleUser || messages[1].Content != "hi" {
		t.Errorf("user message = %+v", messages[1])
	}
	if messages[2].Role != models.RoleAssistant {
		t.Errorf("assistant message role = %q", messages[2].Role)
	}
}

func TestSend_ChatReplyWithCurrentDocument(t *testing.T) {
	gw := &fakeGateway{
		editResp: &models.AIEditResponse{Type: models.ResponseChat, Message: "just an answer"},
	}
	store := storeWithDocument()
	s := NewService(store, gw, testLogger())

	result, err := s.Send(context.Background(), "what is ISO 13485?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if result.Edit != nil {
		t.Error("chat variant must not stage an edit")
	}
	if result.Reply.Content != "just an answer" {
		t.Errorf("reply = %q", result.Reply.Content)
	}
	if s.PendingEdit() != nil {
		t.Error("pending edit must stay nil after a chat reply")
	}

	gw.mu.Lock()
	req := gw.lastRequest
	gw.mu.Unlock()
	if req.DocumentContent != "original body" {
		t.Errorf("request content = %q", req.DocumentContent)
	}
	if req.DocumentType != models.TypeQualityManual {
		t.Errorf("request type = %q", req.DocumentType)
	}
}

func TestSend_StagesEdit(t *testing.T) {
	gw := &fakeGateway{
		editResp: &models.AIEditResponse{
			Type:    models.ResponseEdit,
			Message: "tightened the scope section",
			EditContent: &models.EditContent{
				Content: "revised body",
				Changes: []string{"rewrote scope"},
			},
		},
	}
	s := NewService(storeWithDocument(), gw, testLogger())

	result, err := s.Send(context.Background(), "tighten the scope")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if result.Edit == nil {
		t.Fatal("expected a staged edit")
	}
	if !strings.HasPrefix(result.Reply.Content, "I've analyzed your request") {
		t.Errorf("reply = %q, want the edit prefix", result.Reply.Content)
	}
	if !strings.Contains(result.Reply.Content, "tightened the scope section") {
		t.Errorf("reply = %q, want the model's summary appended", result.Reply.Content)
	}
	if s.PendingEdit() == nil {
		t.Error("pending edit not staged")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle after the turn", s.State())
	}
}

func TestSend_RejectedWhileEditPending(t *testing.T) {
	gw := &fakeGateway{
		editResp: &models.AIEditResponse{
			Type:        models.ResponseEdit,
			Message:     "m",
			EditContent: &models.EditContent{Content: "c", Changes: []string{"x"}},
		},
	}
	s := NewService(storeWithDocument(), gw, testLogger())

	if _, err := s.Send(context.Background(), "edit it"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	_, err := s.Send(context.Background(), "another request")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation while an edit is pending", err)
	}
}

func TestSend_BusyWhileSending(t *testing.T) {
	gw := &fakeGateway{chatReply: "late reply", release: make(chan struct{})}
	s := NewService(&fakeStore{}, gw, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Send(context.Background(), "first")
	}()

	// wait for the first turn to enter Sending
	deadline := time.Now().Add(time.Second)
	for s.State() != StateSending {
		if time.Now().After(deadline) {
			t.Fatal("first turn never entered the sending state")
		}
		time.Sleep(time.Millisecond)
	}

	_, err := s.Send(context.Background(), "second")
	if !errors.Is(err, domain.ErrBusy) {
		t.Errorf("error = %v, want ErrBusy", err)
	}

	close(gw.release)
	<-done

	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle after completion", s.State())
	}
}

func TestSend_FailurePreservesHistory(t *testing.T) {
	gw := &fakeGateway{editErr: &domain.TransportError{Message: "boom"}}
	s := NewService(storeWithDocument(), gw, testLogger())

	_, err := s.Send(context.Background(), "please edit")
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want welcome + user preserved", len(messages))
	}
	if messages[1].Content != "please edit" {
		t.Errorf("user message = %q", messages[1].Content)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle so the user can retry", s.State())
	}
}

func TestSend_ValidatesUserText(t *testing.T) {
	s := NewService(&fakeStore{}, &fakeGateway{}, testLogger())

	for _, text := range []string{"", strings.Repeat("a", 4001)} {
		if _, err := s.Send(context.Background(), text); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Send(%d chars) error = %v, want ErrValidation", len(text), err)
		}
	}
	if len(s.Messages()) != 1 {
		t.Error("rejected input must not be appended to the history")
	}
}

func TestApproveEdit(t *testing.T) {
	store := storeWithDocument()
	gw := &fakeGateway{
		editResp: &models.AIEditResponse{
			Type:        models.ResponseEdit,
			Message:     "m",
			EditContent: &models.EditContent{Content: "one two three", Changes: []string{"x"}},
		},
	}
	s := NewService(store, gw, testLogger())

	if _, err := s.Send(context.Background(), "edit it"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	updated, err := s.ApproveEdit(context.Background())
	if err != nil {
		t.Fatalf("ApproveEdit() error = %v", err)
	}
	if updated.Content != "one two three" {
		t.Errorf("content = %q", updated.Content)
	}
	if updated.WordCount != 3 {
		t.Errorf("wordCount = %d, want 3", updated.WordCount)
	}
	if s.PendingEdit() != nil {
		t.Error("pending edit not cleared after approval")
	}

	// the stage is consumed; a second approval has nothing to apply
	if _, err := s.ApproveEdit(context.Background()); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("second ApproveEdit() error = %v, want ErrValidation", err)
	}
}

func TestApproveEdit_PersistFailureStillConsumesStage(t *testing.T) {
	store := storeWithDocument()
	store.saveErr = &domain.PersistenceError{Message: "save documents", Err: errors.New("disk full")}
	gw := &fakeGateway{
		editResp: &models.AIEditResponse{
			Type:        models.ResponseEdit,
			Message:     "m",
			EditContent: &models.EditContent{Content: "revised", Changes: []string{"x"}},
		},
	}
	s := NewService(store, gw, testLogger())

	if _, err := s.Send(context.Background(), "edit it"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	updated, err := s.ApproveEdit(context.Background())
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("error = %v, want ErrPersistence", err)
	}
	if updated == nil || updated.Content != "revised" {
		t.Error("in-memory document must carry the edit despite the save failure")
	}
	if s.PendingEdit() != nil {
		t.Error("stage must be consumed when the in-memory update succeeded")
	}
}

func TestRejectEdit(t *testing.T) {
	store := storeWithDocument()
	gw := &fakeGateway{
		editResp: &models.AIEditResponse{
			Type:        models.ResponseEdit,
			Message:     "m",
			EditContent: &models.EditContent{Content: "revised", Changes: []string{"x"}},
		},
	}
	s := NewService(store, gw, testLogger())

	if _, err := s.Send(context.Background(), "edit it"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	s.RejectEdit()
	if s.PendingEdit() != nil {
		t.Error("pending edit not cleared")
	}
	if store.docs[0].Content != "original body" {
		t.Errorf("document content = %q, reject must not touch it", store.docs[0].Content)
	}

	// a new turn is allowed again
	gw.editResp = &models.AIEditResponse{Type: models.ResponseChat, Message: "ok"}
	if _, err := s.Send(context.Background(), "thanks"); err != nil {
		t.Errorf("Send() after reject error = %v", err)
	}
}

func TestApproveEdit_NothingStaged(t *testing.T) {
	s := NewService(storeWithDocument(), &fakeGateway{}, testLogger())
	if _, err := s.ApproveEdit(context.Background()); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
