package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"

	"docassist/internal/clipboard"
	"docassist/internal/config"
	"docassist/internal/domain"
	"docassist/internal/editsession"
	"docassist/internal/normalize"
	"docassist/internal/notify"
	"docassist/internal/port"
	"docassist/internal/present"
	"docassist/internal/preview"
)

// ViewOwner scopes a view to the user who opened it.
type ViewOwner struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// EditState is the edit lifecycle as seen by a client.
type EditState struct {
	State editsession.State `json:"state"`
	Draft *string           `json:"draft,omitempty"`
	Diff  string            `json:"diff,omitempty"`
}

// ViewSnapshot is everything a client needs to draw a view.
type ViewSnapshot struct {
	ID            uuid.UUID             `json:"id"`
	RunID         uuid.UUID             `json:"run_id"`
	Tool          domain.ToolIdentifier `json:"tool"`
	Presentation  present.View          `json:"presentation"`
	DisplayedText string                `json:"displayed_text"`
	Edit          EditState             `json:"edit"`
	Pair          *domain.DocumentPair  `json:"pair,omitempty"`
	Previewed     *domain.DocumentRef   `json:"previewed,omitempty"`
	Panel         preview.Panel         `json:"panel"`
	Notifications []port.Notification   `json:"notifications,omitempty"`
	ExpiresAt     time.Time             `json:"expires_at"`
}

// CopyResult carries the copied text back to the client, which owns the real clipboard.
type CopyResult struct {
	Copied       bool              `json:"copied"`
	Text         string            `json:"text"`
	Notification port.Notification `json:"notification"`
}

// ViewService holds transient per-user view state over tool runs. Nothing it
// does is persisted: a view expires after the configured TTL of inactivity.
type ViewService interface {
	Open(ctx context.Context, owner ViewOwner, runID uuid.UUID) (*ViewSnapshot, error)
	Get(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error)
	Replace(ctx context.Context, owner ViewOwner, viewID, runID uuid.UUID) (*ViewSnapshot, error)
	Preview(owner ViewOwner, viewID uuid.UUID, name string) (*ViewSnapshot, error)
	ClosePreview(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error)
	StartEdit(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error)
	UpdateDraft(owner ViewOwner, viewID uuid.UUID, text string) (*ViewSnapshot, error)
	Save(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error)
	Cancel(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error)
	Copy(owner ViewOwner, viewID uuid.UUID) (*CopyResult, error)
	Close(owner ViewOwner, viewID uuid.UUID) error
}

// viewState is one open view. mu serializes requests against it; the core
// types it holds are not safe for concurrent use.
type viewState struct {
	mu        sync.Mutex
	id        uuid.UUID
	owner     ViewOwner
	runID     uuid.UUID
	tool      domain.ToolIdentifier
	session   *editsession.Session
	pairing   *preview.Pairing
	events    *notify.Recorder
	clipboard *clipboard.Buffer
	expiresAt time.Time
	closed    bool
}

type viewService struct {
	tools    ToolService
	views    *cache.Cache
	cfg      config.ViewsConfig
	notifier port.Notifier
	logger   *zap.Logger
}

// NewViewService creates a new ViewService backed by an in-memory TTL cache.
func NewViewService(tools ToolService, cfg config.ViewsConfig, logger *zap.Logger) ViewService {
	views := cache.New(cfg.TTL, cfg.CleanupInterval)
	views.OnEvicted(func(key string, _ interface{}) {
		logger.Debug("viewService: view evicted", zap.String("view_id", key))
	})
	return &viewService{
		tools:    tools,
		views:    views,
		cfg:      cfg,
		notifier: notify.NewLog(logger),
		logger:   logger,
	}
}

func (s *viewService) Open(ctx context.Context, owner ViewOwner, runID uuid.UUID) (*ViewSnapshot, error) {
	run, pair, err := s.loadRun(ctx, owner, runID)
	if err != nil {
		return nil, err
	}

	events := &notify.Recorder{}
	v := &viewState{
		id:        uuid.New(),
		owner:     owner,
		runID:     run.ID,
		tool:      run.Tool,
		events:    events,
		clipboard: &clipboard.Buffer{},
		pairing:   preview.NewPairing(),
	}
	v.session = editsession.New(normalize.Normalize(run.RawResult), notify.Multi{events, s.notifier})
	if s.cfg.UnprocessedMessage != "" {
		v.pairing.UnprocessedText = s.cfg.UnprocessedMessage
	}
	v.pairing.SetPair(pair)

	s.logger.Info("viewService.Open: view opened",
		zap.Stringer("view_id", v.id), zap.Stringer("run_id", run.ID),
		zap.String("model_kind", string(v.session.Model().Kind())))

	v.mu.Lock()
	defer v.mu.Unlock()
	s.touch(v)
	return s.snapshot(v), nil
}

func (s *viewService) Get(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error) {
	return s.with(owner, viewID, func(v *viewState) error { return nil })
}

// Replace points the view at another run, e.g. after the tool was re-run.
// Any draft is discarded and the previewed document is kept.
func (s *viewService) Replace(ctx context.Context, owner ViewOwner, viewID, runID uuid.UUID) (*ViewSnapshot, error) {
	run, pair, err := s.loadRun(ctx, owner, runID)
	if err != nil {
		return nil, err
	}
	return s.with(owner, viewID, func(v *viewState) error {
		v.runID = run.ID
		v.tool = run.Tool
		v.session.Reset(normalize.Normalize(run.RawResult))
		v.pairing.SetPair(pair)
		return nil
	})
}

// Preview opens the document called name. A name matching neither side of the
// pair is still previewed, as an unpaired upload.
func (s *viewService) Preview(owner ViewOwner, viewID uuid.UUID, name string) (*ViewSnapshot, error) {
	return s.with(owner, viewID, func(v *viewState) error {
		ref := domain.DocumentRef{Name: name}
		if pair, ok := v.pairing.Pair(); ok {
			if pair.Output != nil && pair.Output.Name == name {
				ref = *pair.Output
			} else if pair.Original != nil && pair.Original.Name == name {
				ref = *pair.Original
			}
		}
		v.pairing.Preview(ref)
		return nil
	})
}

func (s *viewService) ClosePreview(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error) {
	return s.with(owner, viewID, func(v *viewState) error {
		v.pairing.ClosePreview()
		return nil
	})
}

func (s *viewService) StartEdit(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error) {
	return s.with(owner, viewID, func(v *viewState) error {
		return v.session.StartEdit()
	})
}

func (s *viewService) UpdateDraft(owner ViewOwner, viewID uuid.UUID, text string) (*ViewSnapshot, error) {
	return s.with(owner, viewID, func(v *viewState) error {
		return v.session.UpdateDraft(text)
	})
}

func (s *viewService) Save(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error) {
	return s.with(owner, viewID, func(v *viewState) error {
		_, err := v.session.Save()
		return err
	})
}

func (s *viewService) Cancel(owner ViewOwner, viewID uuid.UUID) (*ViewSnapshot, error) {
	return s.with(owner, viewID, func(v *viewState) error {
		return v.session.Cancel()
	})
}

// Copy copies the displayed text, never the draft.
func (s *viewService) Copy(owner ViewOwner, viewID uuid.UUID) (*CopyResult, error) {
	var result *CopyResult
	_, err := s.with(owner, viewID, func(v *viewState) error {
		if normalize.IsEmpty(v.session.Model()) {
			return domain.ErrNothingToCopy
		}
		text := v.session.Displayed()
		copied := present.Copy(text, v.clipboard, notify.Multi{v.events, s.notifier})
		result = &CopyResult{Copied: copied}
		if got, ok := v.clipboard.Text(); ok {
			result.Text = got
		}
		if events := v.events.Drain(); len(events) > 0 {
			result.Notification = events[len(events)-1]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *viewService) Close(owner ViewOwner, viewID uuid.UUID) error {
	v, err := s.lookup(owner, viewID)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	s.views.Delete(v.id.String())
	s.logger.Info("viewService.Close: view closed", zap.Stringer("view_id", v.id))
	return nil
}

func (s *viewService) loadRun(ctx context.Context, owner ViewOwner, runID uuid.UUID) (*domain.ToolRun, domain.DocumentPair, error) {
	run, err := s.tools.GetByID(ctx, owner.TenantID, runID)
	if err != nil {
		return nil, domain.DocumentPair{}, err
	}
	pair, err := s.tools.Pair(ctx, run)
	if err != nil {
		return nil, domain.DocumentPair{}, err
	}
	return run, pair, nil
}

func (s *viewService) lookup(owner ViewOwner, viewID uuid.UUID) (*viewState, error) {
	item, ok := s.views.Get(viewID.String())
	if !ok {
		return nil, domain.ErrViewNotFound
	}
	v := item.(*viewState)
	if v.owner != owner {
		return nil, domain.ErrViewNotFound
	}
	return v, nil
}

// with runs fn under the view's lock and returns the resulting snapshot. The
// view's expiry is pushed back on every access, including failed transitions.
func (s *viewService) with(owner ViewOwner, viewID uuid.UUID, fn func(v *viewState) error) (*ViewSnapshot, error) {
	v, err := s.lookup(owner, viewID)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, domain.ErrViewNotFound
	}

	s.touch(v)
	if err := fn(v); err != nil {
		return nil, err
	}
	return s.snapshot(v), nil
}

func (s *viewService) touch(v *viewState) {
	v.expiresAt = time.Now().Add(s.cfg.TTL)
	s.views.Set(v.id.String(), v, s.cfg.TTL)
}

func (s *viewService) snapshot(v *viewState) *ViewSnapshot {
	model := v.session.Model()
	result := preview.Result{Model: model, Tool: v.tool}

	snap := &ViewSnapshot{
		ID:            v.id,
		RunID:         v.runID,
		Tool:          v.tool,
		Presentation:  present.Present(model, v.tool, s.cfg.EmptyPlaceholder),
		DisplayedText: v.session.Displayed(),
		Edit:          EditState{State: v.session.State()},
		Panel:         v.pairing.Panel(result, s.cfg.EmptyPlaceholder),
		Notifications: v.events.Drain(),
		ExpiresAt:     v.expiresAt,
	}

	if draft, ok := v.session.Draft(); ok {
		snap.Edit.Draft = &draft
		snap.Edit.Diff = draftDiff(snap.DisplayedText, draft)
		// Editing replaces the edit control with save/cancel.
		snap.Presentation.Controls.Edit = false
	}
	if pair, ok := v.pairing.Pair(); ok {
		snap.Pair = &pair
	}
	if ref, ok := v.pairing.Previewed(); ok {
		snap.Previewed = &ref
	}
	return snap
}

// draftDiff renders the pending change as a patch against the displayed text.
// It is empty when the draft is unchanged.
func draftDiff(displayed, draft string) string {
	if displayed == draft {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(displayed, draft, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(displayed, diffs))
}
