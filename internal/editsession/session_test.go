package editsession_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docassist/internal/domain"
	"docassist/internal/editsession"
	"docassist/internal/normalize"
	"docassist/internal/notify"
	"docassist/internal/port"
)

func TestSession_StartsViewing(t *testing.T) {
	s := editsession.New(normalize.Paragraph{Text: "hello"}, nil)

	assert.Equal(t, editsession.Viewing, s.State())
	assert.Equal(t, "hello", s.Displayed())
	_, ok := s.Draft()
	assert.False(t, ok)
	assert.True(t, s.CanEdit())
}

func TestSession_StartEdit_SeedsDraft(t *testing.T) {
	s := editsession.New(normalize.LineList{Items: []string{"a", "b"}}, nil)

	require.NoError(t, s.StartEdit())

	assert.Equal(t, editsession.Editing, s.State())
	draft, ok := s.Draft()
	assert.True(t, ok)
	assert.Equal(t, "a\nb", draft)
}

func TestSession_StartEdit_StructuredSeedsSerialization(t *testing.T) {
	s := editsession.New(normalize.StructuredObject{Text: "{\n  \"a\": 1\n}"}, nil)

	require.NoError(t, s.StartEdit())

	draft, _ := s.Draft()
	assert.Equal(t, "{\n  \"a\": 1\n}", draft)
}

func TestSession_StartEdit_RejectedOnEmpty(t *testing.T) {
	s := editsession.New(normalize.Empty{}, nil)

	assert.False(t, s.CanEdit())
	err := s.StartEdit()

	assert.ErrorIs(t, err, domain.ErrNothingToEdit)
	assert.Equal(t, editsession.Viewing, s.State())
	_, ok := s.Draft()
	assert.False(t, ok)
}

func TestSession_SaveCommitsDraft(t *testing.T) {
	var rec notify.Recorder
	s := editsession.New(normalize.Paragraph{Text: "original"}, &rec)

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("x"))
	saved, err := s.Save()

	require.NoError(t, err)
	assert.Equal(t, "x", saved)
	assert.Equal(t, "x", s.Displayed())
	assert.Equal(t, editsession.Viewing, s.State())
	_, ok := s.Draft()
	assert.False(t, ok)

	got := rec.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, port.NotificationSuccess, got[0].Level)
	assert.Equal(t, "save", got[0].Action)
}

func TestSession_SaveUpdatesModel(t *testing.T) {
	s := editsession.New(normalize.Paragraph{Text: "original"}, nil)

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("first\nsecond"))
	_, err := s.Save()
	require.NoError(t, err)

	assert.Equal(t, normalize.LineList{Items: []string{"first", "second"}}, s.Model())
}

func TestSession_SaveDisplaysWhatTheModelShows(t *testing.T) {
	s := editsession.New(normalize.Paragraph{Text: "original"}, nil)

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("a\n\n   b"))
	saved, err := s.Save()

	require.NoError(t, err)
	assert.Equal(t, normalize.LineList{Items: []string{"a", "b"}}, s.Model())
	assert.Equal(t, "a\nb", saved)
	assert.Equal(t, normalize.Text(s.Model()), s.Displayed())
}

func TestSession_SaveTrimsParagraph(t *testing.T) {
	s := editsession.New(normalize.Paragraph{Text: "original"}, nil)

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("  revised  \n"))
	_, err := s.Save()

	require.NoError(t, err)
	assert.Equal(t, normalize.Paragraph{Text: "revised"}, s.Model())
	assert.Equal(t, "revised", s.Displayed())
}

func TestSession_SaveRejectsBlankDraft(t *testing.T) {
	var rec notify.Recorder
	s := editsession.New(normalize.Paragraph{Text: "original"}, &rec)

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("   "))
	_, err := s.Save()

	assert.ErrorIs(t, err, domain.ErrEmptyDraft)
	assert.Equal(t, editsession.Editing, s.State())
	draft, ok := s.Draft()
	assert.True(t, ok)
	assert.Equal(t, "   ", draft)
	assert.Equal(t, "original", s.Displayed())
	assert.Equal(t, normalize.Paragraph{Text: "original"}, s.Model())
	assert.Empty(t, rec.Notifications())

	require.NoError(t, s.Cancel())
	assert.True(t, s.CanEdit())
}

func TestSession_CancelRestoresPreEditText(t *testing.T) {
	var rec notify.Recorder
	s := editsession.New(normalize.Paragraph{Text: "original"}, &rec)

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("x"))
	require.NoError(t, s.Cancel())

	assert.Equal(t, "original", s.Displayed())
	assert.Equal(t, editsession.Viewing, s.State())
	_, ok := s.Draft()
	assert.False(t, ok)
	assert.Empty(t, rec.Notifications())
}

func TestSession_CancelAfterEarlierSaveRestoresSavedText(t *testing.T) {
	s := editsession.New(normalize.Paragraph{Text: "v1"}, nil)

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("v2"))
	_, err := s.Save()
	require.NoError(t, err)

	require.NoError(t, s.StartEdit())
	draft, _ := s.Draft()
	assert.Equal(t, "v2", draft)
	require.NoError(t, s.UpdateDraft("v3"))
	require.NoError(t, s.Cancel())

	assert.Equal(t, "v2", s.Displayed())
}

func TestSession_TransitionsOutsideEditingAreRejected(t *testing.T) {
	s := editsession.New(normalize.Paragraph{Text: "p"}, nil)

	assert.ErrorIs(t, s.UpdateDraft("x"), domain.ErrNotEditing)
	_, err := s.Save()
	assert.ErrorIs(t, err, domain.ErrNotEditing)
	assert.ErrorIs(t, s.Cancel(), domain.ErrNotEditing)
	assert.Equal(t, "p", s.Displayed())
}

func TestSession_StartEditTwiceKeepsDraft(t *testing.T) {
	s := editsession.New(normalize.Paragraph{Text: "p"}, nil)

	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("changed"))
	require.NoError(t, s.StartEdit())

	draft, _ := s.Draft()
	assert.Equal(t, "changed", draft)
}

func TestSession_ResetDropsDraft(t *testing.T) {
	s := editsession.New(normalize.Paragraph{Text: "old"}, nil)
	require.NoError(t, s.StartEdit())
	require.NoError(t, s.UpdateDraft("stale"))

	s.Reset(normalize.Paragraph{Text: "new result"})

	assert.Equal(t, editsession.Viewing, s.State())
	assert.Equal(t, "new result", s.Displayed())
	_, ok := s.Draft()
	assert.False(t, ok)
}

func TestSession_ResetNilIsEmpty(t *testing.T) {
	s := editsession.New(nil, nil)

	assert.True(t, normalize.IsEmpty(s.Model()))
	assert.Equal(t, "", s.Displayed())
	assert.False(t, s.CanEdit())
}
