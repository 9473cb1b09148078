package normalize

import "strings"

// Kind names a DisplayModel variant.
type Kind string

const (
	KindEmpty      Kind = "empty"
	KindStructured Kind = "structured"
	KindLines      Kind = "lines"
	KindParagraph  Kind = "paragraph"
)

// DisplayModel is the canonical, render-ready form of a tool result.
// The set of implementations is closed: Empty, StructuredObject, LineList and Paragraph.
type DisplayModel interface {
	Kind() Kind
	displayModel()
}

// Empty means there is nothing to show.
type Empty struct{}

// StructuredObject holds the indented serialization of a non-string JSON value.
type StructuredObject struct {
	Text string
}

// LineList holds two or more non-empty lines in their original order.
type LineList struct {
	Items []string
}

// Paragraph holds a single block of prose.
type Paragraph struct {
	Text string
}

func (Empty) Kind() Kind            { return KindEmpty }
func (StructuredObject) Kind() Kind { return KindStructured }
func (LineList) Kind() Kind         { return KindLines }
func (Paragraph) Kind() Kind        { return KindParagraph }

func (Empty) displayModel()            {}
func (StructuredObject) displayModel() {}
func (LineList) displayModel()         {}
func (Paragraph) displayModel()        {}

// Cases holds one handler per DisplayModel variant. Every field must be set.
type Cases[T any] struct {
	Empty      func() T
	Structured func(StructuredObject) T
	Lines      func(LineList) T
	Paragraph  func(Paragraph) T
}

// Match dispatches m to the handler for its variant. A nil model is treated as Empty.
func Match[T any](m DisplayModel, c Cases[T]) T {
	switch v := m.(type) {
	case StructuredObject:
		return c.Structured(v)
	case LineList:
		return c.Lines(v)
	case Paragraph:
		return c.Paragraph(v)
	default:
		return c.Empty()
	}
}

// Text returns the plain text a model displays: the serialization for structured
// values, lines joined by newlines for lists, the prose for paragraphs.
func Text(m DisplayModel) string {
	return Match(m, Cases[string]{
		Empty:      func() string { return "" },
		Structured: func(s StructuredObject) string { return s.Text },
		Lines:      func(l LineList) string { return strings.Join(l.Items, "\n") },
		Paragraph:  func(p Paragraph) string { return p.Text },
	})
}

// IsEmpty reports whether m has nothing to display.
func IsEmpty(m DisplayModel) bool {
	return m == nil || m.Kind() == KindEmpty
}

// Equal reports whether two models are the same variant with the same content.
func Equal(a, b DisplayModel) bool {
	if IsEmpty(a) || IsEmpty(b) {
		return IsEmpty(a) && IsEmpty(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if al, ok := a.(LineList); ok {
		bl := b.(LineList)
		if len(al.Items) != len(bl.Items) {
			return false
		}
		for i := range al.Items {
			if al.Items[i] != bl.Items[i] {
				return false
			}
		}
		return true
	}
	return Text(a) == Text(b)
}
