// Package preview tracks which document of an original/output pair is open in
// the full-screen viewer and decides what accompanies it.
package preview

import (
	"docassist/internal/domain"
	"docassist/internal/normalize"
	"docassist/internal/present"
)

// Slot names the side of a pair a previewed document matched.
type Slot string

const (
	SlotNone     Slot = "none"
	SlotOriginal Slot = "original"
	SlotOutput   Slot = "output"
	SlotUnpaired Slot = "unpaired"
)

// PanelKind is what is shown beside the viewer.
type PanelKind string

const (
	PanelHidden      PanelKind = "hidden"
	PanelResult      PanelKind = "result"
	PanelPlaceholder PanelKind = "placeholder"
)

// DefaultUnprocessedText accompanies a document that has no AI output attached.
const DefaultUnprocessedText = "This document was uploaded but has not been processed yet."

// Result is an already-normalized tool result owned by the caller.
type Result struct {
	Model normalize.DisplayModel
	Tool  domain.ToolIdentifier
}

// Panel is the side panel for the current preview. View is set only for PanelResult.
type Panel struct {
	Kind PanelKind     `json:"kind"`
	Slot Slot          `json:"slot"`
	Text string        `json:"text,omitempty"`
	View *present.View `json:"view,omitempty"`
}

// Pairing holds at most one pair and at most one previewed document.
// It is not safe for concurrent use.
type Pairing struct {
	pair      *domain.DocumentPair
	previewed *domain.DocumentRef

	UnprocessedText string
}

// NewPairing returns an empty Pairing.
func NewPairing() *Pairing {
	return &Pairing{UnprocessedText: DefaultUnprocessedText}
}

// SetPair replaces the held pair. The previewed document is kept.
func (p *Pairing) SetPair(pair domain.DocumentPair) {
	p.pair = &pair
}

// Pair returns the held pair, if any.
func (p *Pairing) Pair() (domain.DocumentPair, bool) {
	if p.pair == nil {
		return domain.DocumentPair{}, false
	}
	return *p.pair, true
}

// Clear drops both the pair and the previewed document.
func (p *Pairing) Clear() {
	p.pair = nil
	p.previewed = nil
}

// Preview opens ref in the viewer.
func (p *Pairing) Preview(ref domain.DocumentRef) {
	p.previewed = &ref
}

// Previewed returns the document currently open in the viewer.
func (p *Pairing) Previewed() (domain.DocumentRef, bool) {
	if p.previewed == nil {
		return domain.DocumentRef{}, false
	}
	return *p.previewed, true
}

// ClosePreview closes the viewer. The pair is kept.
func (p *Pairing) ClosePreview() {
	p.previewed = nil
}

// Slot reports which side of the pair the previewed document matches by name.
// The output side wins when both sides carry the same name.
func (p *Pairing) Slot() Slot {
	if p.previewed == nil {
		return SlotNone
	}
	if p.pair == nil {
		return SlotUnpaired
	}
	name := p.previewed.Name
	if p.pair.Output != nil && p.pair.Output.Name == name {
		return SlotOutput
	}
	if p.pair.Original != nil && p.pair.Original.Name == name {
		return SlotOriginal
	}
	return SlotUnpaired
}

// Panel decides what is shown beside the viewer. result is presented only when
// the output side is previewed; any other previewed document gets the neutral
// placeholder.
func (p *Pairing) Panel(result Result, placeholder string) Panel {
	slot := p.Slot()
	switch slot {
	case SlotNone:
		return Panel{Kind: PanelHidden, Slot: slot}
	case SlotOutput:
		v := present.Present(result.Model, result.Tool, placeholder)
		return Panel{Kind: PanelResult, Slot: slot, View: &v}
	default:
		text := p.UnprocessedText
		if text == "" {
			text = DefaultUnprocessedText
		}
		return Panel{Kind: PanelPlaceholder, Slot: slot, Text: text}
	}
}

// Route hands result to the presenter when the output side is previewed.
func (p *Pairing) Route(result Result, placeholder string) (present.View, bool) {
	if p.Slot() != SlotOutput {
		return present.View{}, false
	}
	return present.Present(result.Model, result.Tool, placeholder), true
}
