// Package editsession implements the in-place edit lifecycle over a displayed
// tool result.
//
//	Viewing --StartEdit--> Editing --UpdateDraft--> Editing
//	Editing --Save-------> Viewing   (draft becomes the displayed text)
//	Editing --Cancel-----> Viewing   (draft discarded)
//
// Reset replaces the underlying model and always lands in Viewing.
package editsession

import (
	"docassist/internal/domain"
	"docassist/internal/normalize"
	"docassist/internal/port"
)

// State is the session's position in the edit lifecycle.
type State string

const (
	Viewing State = "viewing"
	Editing State = "editing"
)

const (
	saveAction = "save"
)

// edit exists only while the session is Editing.
type edit struct {
	draft string
}

// Session tracks the displayed text of one visible result and any edit in progress.
// It is not safe for concurrent use.
type Session struct {
	model     normalize.DisplayModel
	displayed string
	edit      *edit
	notifier  port.Notifier
}

// New starts a session in Viewing over model. notifier may be nil.
func New(model normalize.DisplayModel, notifier port.Notifier) *Session {
	s := &Session{notifier: notifier}
	s.Reset(model)
	return s
}

// Reset replaces the model, drops any draft and returns to Viewing.
func (s *Session) Reset(model normalize.DisplayModel) {
	if model == nil {
		model = normalize.Empty{}
	}
	s.model = model
	s.displayed = normalize.Text(model)
	s.edit = nil
}

// State reports Viewing or Editing.
func (s *Session) State() State {
	if s.edit != nil {
		return Editing
	}
	return Viewing
}

// Model returns the model currently displayed, including committed edits.
func (s *Session) Model() normalize.DisplayModel {
	return s.model
}

// Displayed returns the text currently displayed.
func (s *Session) Displayed() string {
	return s.displayed
}

// Draft returns the draft and true while Editing.
func (s *Session) Draft() (string, bool) {
	if s.edit == nil {
		return "", false
	}
	return s.edit.draft, true
}

// CanEdit reports whether StartEdit would succeed.
func (s *Session) CanEdit() bool {
	return s.edit == nil && !normalize.IsEmpty(s.model)
}

// StartEdit seeds a draft with the displayed text. It fails with
// domain.ErrNothingToEdit on an Empty model. Calling it while already Editing
// keeps the current draft.
func (s *Session) StartEdit() error {
	if s.edit != nil {
		return nil
	}
	if normalize.IsEmpty(s.model) {
		return domain.ErrNothingToEdit
	}
	s.edit = &edit{draft: s.displayed}
	return nil
}

// UpdateDraft replaces the draft. No validation is applied.
func (s *Session) UpdateDraft(text string) error {
	if s.edit == nil {
		return domain.ErrNotEditing
	}
	s.edit.draft = text
	return nil
}

// Save commits the draft and returns the text now displayed. The displayed text
// is derived from the rebuilt model, so blank lines and surrounding whitespace
// the model drops are dropped from it too. A blank draft is rejected with
// domain.ErrEmptyDraft and the session stays Editing.
func (s *Session) Save() (string, error) {
	if s.edit == nil {
		return "", domain.ErrNotEditing
	}
	model := normalize.FromEdited(s.model, s.edit.draft)
	if normalize.IsEmpty(model) {
		return "", domain.ErrEmptyDraft
	}
	s.edit = nil
	s.model = model
	s.displayed = normalize.Text(model)

	if s.notifier != nil {
		s.notifier.Notify(port.Notification{
			Level:   port.NotificationSuccess,
			Action:  saveAction,
			Message: "Changes saved",
		})
	}
	return s.displayed, nil
}

// Cancel discards the draft; the displayed text is left as it was before StartEdit.
func (s *Session) Cancel() error {
	if s.edit == nil {
		return domain.ErrNotEditing
	}
	s.edit = nil
	return nil
}
