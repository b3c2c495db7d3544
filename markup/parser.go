package markup

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	markupLexer = lexer.MustSimple([]lexer.SimpleRule{
		// A newline, or a blank-line sequence, is a single explicit break.
		{Name: "Newline", Pattern: `\r?\n(?:[ \t]*\r?\n)*`},
		{Name: "Escape", Pattern: `\\[\\*<>]`},
		{Name: "Strong", Pattern: `\*\*`},
		{Name: "Emph", Pattern: `\*`},
		{Name: "Tag", Pattern: `</?[A-Za-z][A-Za-z0-9]*(?:\s+[^<>]*)?/?>`},
		{Name: "Text", Pattern: `[^*<\\\r\n]+`},
		{Name: "Char", Pattern: `[\s\S]`},
	})

	newlineTokenType = mustTokenType("Newline")
	escapeTokenType  = mustTokenType("Escape")
	strongTokenType  = mustTokenType("Strong")
	emphTokenType    = mustTokenType("Emph")
	tagTokenType     = mustTokenType("Tag")
)

// Warning reports a recoverable markup problem. The offending marker has
// already been kept as literal text (or closed implicitly) when it is returned.
type Warning struct {
	Offset  int    `json:"offset"`
	Message string `json:"message"`
}

func (w Warning) String() string { return fmt.Sprintf("offset %d: %s", w.Offset, w.Message) }

// Parse converts a label into an immutable Document tree.
//
// The grammar is a small markdown subset: *italic*, **bold**, <sup>…</sup>,
// <sub>…</sub>, <br> and newlines. Parse never fails: unmatched emphasis
// markers, stray closing tags and unknown tags stay literal text, and
// unterminated <sup>/<sub> spans are closed at the end of the input. Every
// such recovery is reported as a Warning.
func Parse(label string) (Node, []Warning) {
	p := &parser{stack: []*frame{{kind: KindDocument}}}
	if label == "" {
		return p.finish(), nil
	}

	lex, err := markupLexer.LexString("", label)
	if err == nil {
		var tokens []lexer.Token
		tokens, err = lexer.ConsumeAll(lex)
		if err == nil {
			for _, tok := range tokens {
				if tok.EOF() {
					break
				}
				p.consume(tok)
			}
			return p.finish(), p.warnings
		}
	}
	// The catch-all rule makes lexing total; keep the label readable anyway.
	p.appendText(label)
	p.warn(0, fmt.Sprintf("label kept as plain text: %v", err))
	return p.finish(), p.warnings
}

type frame struct {
	kind     Kind
	marker   string
	offset   int
	children []Node
}

type parser struct {
	stack    []*frame
	warnings []Warning
}

func (p *parser) consume(tok lexer.Token) {
	offset := tok.Pos.Offset
	switch tok.Type {
	case newlineTokenType:
		p.appendNode(Node{Kind: KindLineBreak})
	case escapeTokenType:
		p.appendText(tok.Value[1:])
	case strongTokenType:
		p.toggle(KindBold, tok.Value, offset)
	case emphTokenType:
		p.toggle(KindItalic, tok.Value, offset)
	case tagTokenType:
		p.tag(tok.Value, offset)
	default:
		p.appendText(tok.Value)
	}
}

// toggle handles markers that both open and close a span.
func (p *parser) toggle(kind Kind, marker string, offset int) {
	if idx := p.find(kind); idx > 0 {
		p.closeAt(idx)
		return
	}
	p.open(kind, marker, offset)
}

// tag handles <sup>, <sub> and <br>. Attributes on a known tag are ignored
// with a warning; the tag keeps its meaning.
func (p *parser) tag(raw string, offset int) {
	closing := strings.HasPrefix(raw, "</")
	name, attrs := splitTag(raw)
	switch name {
	case "sup", "sub", "br":
		if attrs != "" {
			p.warn(offset, fmt.Sprintf("attributes %q on <%s> ignored", attrs, name))
		}
	}
	switch name {
	case "sup", "sub":
		kind := KindSuperscript
		if name == "sub" {
			kind = KindSubscript
		}
		if !closing {
			p.open(kind, raw, offset)
			return
		}
		if idx := p.find(kind); idx > 0 {
			p.closeAt(idx)
			return
		}
		p.appendText(raw)
		p.warn(offset, fmt.Sprintf("unmatched closing tag %q kept as text", raw))
	case "br":
		if closing {
			p.appendText(raw)
			p.warn(offset, fmt.Sprintf("unexpected closing tag %q kept as text", raw))
			return
		}
		p.appendNode(Node{Kind: KindLineBreak})
	default:
		p.appendText(raw)
		p.warn(offset, fmt.Sprintf("unknown tag %q kept as text", raw))
	}
}

// splitTag returns the lower-cased tag name and whatever follows it inside
// the brackets, without the self-closing slash.
func splitTag(raw string) (name, attrs string) {
	body := strings.TrimPrefix(strings.TrimPrefix(raw, "<"), "/")
	body = strings.TrimSuffix(body, ">")
	end := 0
	for end < len(body) && isTagNameByte(body[end]) {
		end++
	}
	name = strings.ToLower(body[:end])
	attrs = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body[end:]), "/"))
	return name, attrs
}

func isTagNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func (p *parser) open(kind Kind, marker string, offset int) {
	p.stack = append(p.stack, &frame{kind: kind, marker: marker, offset: offset})
}

// find returns the stack index of the innermost open frame of kind, or -1.
func (p *parser) find(kind Kind) int {
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i].kind == kind {
			return i
		}
	}
	return -1
}

// closeAt closes the frame at idx. Frames opened after it are released first
// so the resulting tree stays well nested.
func (p *parser) closeAt(idx int) {
	for len(p.stack)-1 > idx {
		p.release(p.pop())
	}
	f := p.pop()
	p.appendNode(Node{Kind: f.kind, Children: f.children})
}

// release disposes of a frame that never saw its closing marker.
func (p *parser) release(f *frame) {
	switch f.kind {
	case KindSuperscript, KindSubscript:
		p.appendNode(Node{Kind: f.kind, Children: f.children})
		p.warn(f.offset, fmt.Sprintf("unterminated %q closed implicitly", f.marker))
	default:
		p.appendText(f.marker)
		for _, child := range f.children {
			p.appendNode(child)
		}
		p.warn(f.offset, fmt.Sprintf("unmatched %q kept as text", f.marker))
	}
}

func (p *parser) pop() *frame {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

func (p *parser) appendText(s string) {
	p.appendNode(Node{Kind: KindText, Text: s})
}

// appendNode adds n to the current frame, merging adjacent text leaves.
func (p *parser) appendNode(n Node) {
	if n.Kind == KindText && n.Text == "" {
		return
	}
	f := p.stack[len(p.stack)-1]
	if n.Kind == KindText && len(f.children) > 0 {
		last := &f.children[len(f.children)-1]
		if last.Kind == KindText {
			last.Text += n.Text
			return
		}
	}
	f.children = append(f.children, n)
}

func (p *parser) warn(offset int, msg string) {
	p.warnings = append(p.warnings, Warning{Offset: offset, Message: msg})
}

func (p *parser) finish() Node {
	for len(p.stack) > 1 {
		p.release(p.pop())
	}
	return Node{Kind: KindDocument, Children: p.stack[0].children}
}

func mustTokenType(name string) lexer.TokenType {
	symbols := markupLexer.Symbols()
	tt, ok := symbols[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
