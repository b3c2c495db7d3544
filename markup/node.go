package markup

import (
	"strconv"
	"strings"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	KindDocument Kind = iota
	KindBold
	KindItalic
	KindSuperscript
	KindSubscript
	KindLineBreak
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindBold:
		return "Bold"
	case KindItalic:
		return "Italic"
	case KindSuperscript:
		return "Superscript"
	case KindSubscript:
		return "Subscript"
	case KindLineBreak:
		return "LineBreak"
	case KindText:
		return "Text"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is one element of the inline markup tree. Text nodes are leaves and
// carry their literal in Text; LineBreak has neither text nor children.
// Trees returned by Parse are never modified afterwards.
type Node struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// String renders the tree compactly, e.g. Document(Italic("r") " = 1").
func (n Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	switch n.Kind {
	case KindText:
		b.WriteString(strconv.Quote(n.Text))
		return
	case KindLineBreak:
		b.WriteString("LineBreak")
		return
	}
	b.WriteString(n.Kind.String())
	b.WriteByte('(')
	for i, child := range n.Children {
		if i > 0 {
			b.WriteByte(' ')
		}
		child.write(b)
	}
	b.WriteByte(')')
}

// PlainText concatenates the literal text of the tree; line breaks become "\n".
func PlainText(n Node) string {
	var b strings.Builder
	var walk func(Node)
	walk = func(n Node) {
		switch n.Kind {
		case KindText:
			b.WriteString(n.Text)
		case KindLineBreak:
			b.WriteByte('\n')
		default:
			for _, child := range n.Children {
				walk(child)
			}
		}
	}
	walk(n)
	return b.String()
}
