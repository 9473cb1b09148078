package present

import (
	"docassist/internal/domain"
	"docassist/internal/normalize"
)

// BlockKind tells a surface how to lay out a Block.
type BlockKind string

const (
	BlockPlaceholder  BlockKind = "placeholder"
	BlockPreformatted BlockKind = "preformatted"
	BlockNumberedList BlockKind = "numbered_list"
	BlockParagraph    BlockKind = "paragraph"
)

// Block is the render-ready body of a result panel.
//
// Placeholder and Paragraph blocks carry Text, Preformatted blocks carry Text that
// must keep its whitespace and be set in a monospace face, NumberedList blocks
// carry Items in display order.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
}

// Controls lists the actions a surface offers on a block.
type Controls struct {
	Copy bool `json:"copy"`
	Edit bool `json:"edit"`
}

// View is what a surface needs to draw one tool result.
type View struct {
	Descriptor Descriptor     `json:"descriptor"`
	Kind       normalize.Kind `json:"model_kind"`
	Block      Block          `json:"block"`
	Controls   Controls       `json:"controls"`
}

// Present combines the tool's descriptor with the render policy for model.
// placeholder is shown for an Empty model; when it is blank the tool's narrative
// fallback is used instead.
func Present(model normalize.DisplayModel, tool domain.ToolIdentifier, placeholder string) View {
	d := Describe(tool)
	if placeholder == "" {
		placeholder = d.NarrativeFallback
	}

	block := Render(model, placeholder)
	var controls Controls
	if !normalize.IsEmpty(model) {
		controls = Controls{Copy: true, Edit: true}
	}

	kind := normalize.KindEmpty
	if model != nil {
		kind = model.Kind()
	}

	return View{
		Descriptor: d,
		Kind:       kind,
		Block:      block,
		Controls:   controls,
	}
}

// Render applies the render policy to model.
func Render(model normalize.DisplayModel, placeholder string) Block {
	return normalize.Match(model, normalize.Cases[Block]{
		Empty: func() Block {
			return Block{Kind: BlockPlaceholder, Text: placeholder}
		},
		Structured: func(s normalize.StructuredObject) Block {
			return Block{Kind: BlockPreformatted, Text: s.Text}
		},
		Lines: func(l normalize.LineList) Block {
			items := make([]string, len(l.Items))
			copy(items, l.Items)
			return Block{Kind: BlockNumberedList, Items: items}
		},
		Paragraph: func(p normalize.Paragraph) Block {
			return Block{Kind: BlockParagraph, Text: p.Text}
		},
	})
}
