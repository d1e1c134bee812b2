package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"docgen-backend/internal/revision"
	"docgen-backend/internal/shared/util"
)

// Phase is the lifecycle state of an open document session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseSaving
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseSaving:
		return "saving"
	default:
		return "loading"
	}
}

// ViewMode selects how the document is presented.
type ViewMode string

const (
	ViewEdit    ViewMode = "edit"
	ViewPreview ViewMode = "preview"
	ViewSplit   ViewMode = "split"
)

// Role classifies a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatEntry is one line of the session conversation log. The log is
// append-only and insertion order is significant.
type ChatEntry struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// Document is the session's view of a stored document. It may run ahead of
// the store while unsaved edits exist.
type Document struct {
	ID        string
	Title     string
	DocType   string
	Content   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store reads and writes documents in the backing document store.
type Store interface {
	Fetch(ctx context.Context, id string) (Document, error)
	Update(ctx context.Context, doc Document) error
}

// Reviser requests an AI revision of document content.
type Reviser interface {
	Review(ctx context.Context, documentID, content string, feedback []string) (revision.Response, error)
}

var (
	ErrNotReady       = errors.New("session: document not loaded")
	ErrSaveInFlight   = errors.New("session: save already in flight")
	ErrReviewInFlight = errors.New("session: review already in flight")
	ErrInvalidView    = errors.New("session: invalid view mode")
)

const seedEntryText = "Document loaded. Ask for a review or edit directly."

// Session tracks one open document: its current content, dirty status, view
// mode, and conversation log. Save and Review are each single-flight; they
// may overlap each other but never themselves. The lock is never held across
// a network call, so a slow save does not block edits.
type Session struct {
	store   Store
	reviser Reviser
	now     func() time.Time

	mu        sync.Mutex
	phase     Phase
	doc       Document
	dirty     bool
	viewMode  ViewMode
	reviewing bool
	seeded    bool
	chat      []ChatEntry
}

// New creates a session in the Loading phase.
func New(store Store, reviser Reviser) *Session {
	return &Session{
		store:    store,
		reviser:  reviser,
		now:      time.Now,
		phase:    PhaseLoading,
		viewMode: ViewEdit,
	}
}

// Load fetches the document and moves the session to Ready. The first
// successful load seeds a single system chat entry; reloading the same
// session never re-seeds it.
func (s *Session) Load(ctx context.Context, id string) error {
	doc, err := s.store.Fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("load document %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.dirty = false
	s.phase = PhaseReady
	if !s.seeded {
		s.seeded = true
		s.chat = append(s.chat, ChatEntry{Role: RoleSystem, Text: seedEntryText, Timestamp: s.now()})
	}
	return nil
}

// SetContent replaces the document body and marks the session dirty.
func (s *Session) SetContent(content string) error {
	return s.mutate(func(doc *Document) { doc.Content = content })
}

// SetTitle replaces the title and marks the session dirty.
func (s *Session) SetTitle(title string) error {
	return s.mutate(func(doc *Document) { doc.Title = title })
}

// SetStatus replaces the workflow status and marks the session dirty.
func (s *Session) SetStatus(status string) error {
	return s.mutate(func(doc *Document) { doc.Status = status })
}

func (s *Session) mutate(apply func(*Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseLoading {
		return ErrNotReady
	}
	apply(&s.doc)
	s.dirty = true
	return nil
}

// SetViewMode switches between edit, preview, and split. View changes do not
// touch the dirty flag.
func (s *Session) SetViewMode(mode ViewMode) error {
	switch mode {
	case ViewEdit, ViewPreview, ViewSplit:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidView, mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMode = mode
	return nil
}

// Save normalizes the content and writes the document back to the store.
// A second Save while one is outstanding returns ErrSaveInFlight and sends
// nothing. On success the dirty flag clears and updatedAt is refreshed to
// the local clock; on failure the dirty flag stays set so the user can retry.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == PhaseLoading {
		s.mu.Unlock()
		return ErrNotReady
	}
	if s.phase == PhaseSaving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.phase = PhaseSaving
	s.doc.Content = util.NormalizeContent(s.doc.Content)
	snapshot := s.doc
	s.mu.Unlock()

	err := s.store.Update(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseReady
	if err != nil {
		return fmt.Errorf("save document %s: %w", snapshot.ID, err)
	}
	s.dirty = false
	s.doc.UpdatedAt = s.now()
	return nil
}

// Review sends the current content for revision and applies the merged
// result. A second Review while one is outstanding returns ErrReviewInFlight
// and sends nothing; Save and Review may overlap each other. The outcome is
// always appended to the chat log, failures as an assistant entry with the
// document left unmodified.
func (s *Session) Review(ctx context.Context, feedback []string) error {
	s.mu.Lock()
	if s.phase == PhaseLoading {
		s.mu.Unlock()
		return ErrNotReady
	}
	if s.reviewing {
		s.mu.Unlock()
		return ErrReviewInFlight
	}
	s.reviewing = true
	s.doc.Content = util.NormalizeContent(s.doc.Content)
	docID := s.doc.ID
	content := s.doc.Content
	s.mu.Unlock()

	resp, err := s.reviser.Review(ctx, docID, content, feedback)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewing = false
	if err != nil {
		s.chat = append(s.chat, ChatEntry{
			Role:      RoleAssistant,
			Text:      fmt.Sprintf("Review failed: %v", err),
			Timestamp: s.now(),
		})
		return fmt.Errorf("review document %s: %w", docID, err)
	}

	merged := revision.Reconcile(s.doc.Content, resp)
	s.doc.Content = merged.Content
	s.dirty = true
	s.chat = append(s.chat, ChatEntry{Role: RoleAssistant, Text: merged.ChangeLog, Timestamp: s.now()})
	return nil
}

// AppendUserMessage records a user-authored conversation entry.
func (s *Session) AppendUserMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, ChatEntry{Role: RoleUser, Text: text, Timestamp: s.now()})
}

// Document returns a copy of the current document view.
func (s *Session) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Dirty reports whether unsaved changes exist.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ViewMode returns the current view mode.
func (s *Session) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// Reviewing reports whether a revision request is in flight.
func (s *Session) Reviewing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviewing
}

// Chat returns a copy of the conversation log in insertion order.
func (s *Session) Chat() []ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatEntry, len(s.chat))
	copy(out, s.chat)
	return out
}
