package docsystem

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"medidoc/internal/domain/services"
)

// AutoSaver batches rapid content edits into one store update. Each Save
// call records the pending body and resets the timer; the flush to the
// store happens only after the delay elapses without another call.
type AutoSaver struct {
	store  services.DocumentStore
	delay  time.Duration
	logger *slog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	documentID string
	pending    string
	dirty      bool
}

// NewAutoSaver creates an auto-saver flushing into store after delay.
func NewAutoSaver(store services.DocumentStore, delay time.Duration, logger *slog.Logger) *AutoSaver {
	return &AutoSaver{
		store:  store,
		delay:  delay,
		logger: logger,
	}
}

// Save schedules content to be written to the document identified by
// documentID. Successive calls for the same document coalesce; a call for
// a different document flushes the previous one first so no edit is lost.
func (a *AutoSaver) Save(documentID, content string) {
	a.mu.Lock()

	if a.dirty && a.documentID != documentID {
		id, body := a.documentID, a.pending
		a.stopTimerLocked()
		a.dirty = false
		a.mu.Unlock()
		a.flush(id, body)
		a.mu.Lock()
	}

	a.documentID = documentID
	a.pending = content
	a.dirty = true

	a.stopTimerLocked()
	a.timer = time.AfterFunc(a.delay, a.fire)
	a.mu.Unlock()
}

// Pending returns the not-yet-flushed body for documentID, if any.
// Callers building on top of the latest text must prefer this over the
// store's copy while a save is queued.
func (a *AutoSaver) Pending(documentID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dirty && a.documentID == documentID {
		return a.pending, true
	}
	return "", false
}

// Flush writes any pending content immediately and cancels the timer.
// Call on shutdown so the last edit is not lost to the delay window.
func (a *AutoSaver) Flush() {
	a.mu.Lock()
	if !a.dirty {
		a.stopTimerLocked()
		a.mu.Unlock()
		return
	}
	id, body := a.documentID, a.pending
	a.dirty = false
	a.stopTimerLocked()
	a.mu.Unlock()

	a.flush(id, body)
}

// Cancel discards any pending content without writing it.
func (a *AutoSaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = false
	a.stopTimerLocked()
}

func (a *AutoSaver) fire() {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return
	}
	id, body := a.documentID, a.pending
	a.dirty = false
	a.mu.Unlock()

	a.flush(id, body)
}

func (a *AutoSaver) flush(documentID, content string) {
	if _, err := a.store.UpdateContent(context.Background(), documentID, content); err != nil {
		a.logger.Error("auto-save failed", "document_id", documentID, "error", err)
		return
	}
	a.logger.Debug("auto-saved", "document_id", documentID)
}

// stopTimerLocked stops a scheduled flush. Callers hold a.mu.
func (a *AutoSaver) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
