package present_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docassist/internal/clipboard"
	"docassist/internal/domain"
	"docassist/internal/normalize"
	"docassist/internal/notify"
	"docassist/internal/port"
	"docassist/internal/present"
	"docassist/mocks"
)

var allTools = []domain.ToolIdentifier{
	domain.ToolSummarize,
	domain.ToolCrossDocLink,
	domain.ToolTranslateLocalize,
	domain.ToolUnknown,
}

func TestDescribe_TotalOverAllTools(t *testing.T) {
	titles := map[string]bool{}
	accents := map[present.AccentColor]bool{}
	for _, tool := range allTools {
		d := present.Describe(tool)
		assert.Equal(t, tool, d.Tool)
		assert.NotEmpty(t, d.Title, "tool %s", tool)
		assert.NotEmpty(t, d.Accent, "tool %s", tool)
		assert.NotEmpty(t, d.NarrativeFallback, "tool %s", tool)
		titles[d.Title] = true
		accents[d.Accent] = true
	}
	assert.Len(t, titles, len(allTools), "titles must be distinct")
	assert.Len(t, accents, len(allTools), "accents must be distinct")
	assert.Len(t, present.Descriptors(), len(allTools))
}

func TestDescribe_UnrecognizedFallsBackToUnknown(t *testing.T) {
	d := present.Describe(domain.ToolIdentifier("ocr"))
	assert.Equal(t, present.Describe(domain.ToolUnknown), d)
}

func TestPresent_Empty_UsesCallerPlaceholderAndHidesControls(t *testing.T) {
	v := present.Present(normalize.Empty{}, domain.ToolSummarize, "No result yet")

	assert.Equal(t, present.BlockPlaceholder, v.Block.Kind)
	assert.Equal(t, "No result yet", v.Block.Text)
	assert.False(t, v.Controls.Copy)
	assert.False(t, v.Controls.Edit)
	assert.Equal(t, normalize.KindEmpty, v.Kind)
}

func TestPresent_Empty_FallsBackToNarrative(t *testing.T) {
	v := present.Present(nil, domain.ToolTranslateLocalize, "")

	assert.Equal(t, present.BlockPlaceholder, v.Block.Kind)
	assert.Equal(t, present.Describe(domain.ToolTranslateLocalize).NarrativeFallback, v.Block.Text)
}

func TestPresent_Structured_Preformatted(t *testing.T) {
	v := present.Present(normalize.StructuredObject{Text: "{\n  \"a\": 1\n}"}, domain.ToolCrossDocLink, "")

	assert.Equal(t, present.BlockPreformatted, v.Block.Kind)
	assert.Equal(t, "{\n  \"a\": 1\n}", v.Block.Text)
	assert.Equal(t, "Cross-document links", v.Descriptor.Title)
	assert.True(t, v.Controls.Copy)
	assert.True(t, v.Controls.Edit)
}

func TestPresent_LineList_NumberedListInOrder(t *testing.T) {
	v := present.Present(normalize.LineList{Items: []string{"b", "a", "c"}}, domain.ToolSummarize, "")

	assert.Equal(t, present.BlockNumberedList, v.Block.Kind)
	assert.Equal(t, []string{"b", "a", "c"}, v.Block.Items)
	assert.Empty(t, v.Block.Text)
}

func TestPresent_Paragraph(t *testing.T) {
	v := present.Present(normalize.Paragraph{Text: "one block"}, domain.ToolUnknown, "")

	assert.Equal(t, present.BlockParagraph, v.Block.Kind)
	assert.Equal(t, "one block", v.Block.Text)
	assert.Equal(t, present.AccentGray, v.Descriptor.Accent)
}

func TestRender_ListItemsAreCopied(t *testing.T) {
	items := []string{"x", "y"}
	b := present.Render(normalize.LineList{Items: items}, "")
	b.Items[0] = "mutated"
	assert.Equal(t, "x", items[0])
}

func TestCopy_Success(t *testing.T) {
	var buf clipboard.Buffer
	var rec notify.Recorder

	ok := present.Copy("displayed text", &buf, &rec)

	assert.True(t, ok)
	text, _ := buf.Text()
	assert.Equal(t, "displayed text", text)
	got := rec.Notifications()
	assert.Len(t, got, 1)
	assert.Equal(t, port.NotificationSuccess, got[0].Level)
	assert.Equal(t, "copy", got[0].Action)
}

func TestCopy_Failure(t *testing.T) {
	cb := new(mocks.MockClipboard)
	cb.On("WriteText", "text").Return(errors.New("no display"))
	notifier := new(mocks.MockNotifier)
	notifier.On("Notify", mock.MatchedBy(func(n port.Notification) bool {
		return n.Level == port.NotificationError && n.Action == "copy"
	})).Return()

	ok := present.Copy("text", cb, notifier)

	assert.False(t, ok)
	cb.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCopy_NilClipboardAndNotifier(t *testing.T) {
	assert.False(t, present.Copy("text", nil, nil))
}
