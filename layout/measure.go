package layout

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Measure 将 StyledRun 按空白切分为 BreakUnit，并向度量后端查询每个单元的尺寸。
// 返回值中的 strut 是基础字体在正文字号下的行度量，用于空行高度与上下标偏移。
// 度量失败不会中断排版：使用替代宽度并记录诊断。
func Measure(runs []StyledRun, provider MetricsProvider, style TextStyle, consts Constants) ([]BreakUnit, Metrics, []Diagnostic) {
	var diags []Diagnostic
	baseFont := style.font(StyledRun{Scale: 1})
	strut, err := provider.Measure("", baseFont)
	if err != nil || strut.Ascent+strut.Descent <= 0 {
		strut = Metrics{Ascent: 0.8 * baseFont.Size, Descent: 0.2 * baseFont.Size}
	}

	units := make([]BreakUnit, 0, len(runs)*2)
	for _, run := range runs {
		if run.Break {
			units = append(units, BreakUnit{Run: run, Forced: true, BreakableAfter: true})
			continue
		}
		font := style.font(run)
		offset := 0.0
		switch run.Shift {
		case ShiftSuper:
			offset = consts.SuperShift * strut.Ascent
		case ShiftSub:
			offset = consts.SubShift * strut.Ascent
		}
		for _, tok := range tokenize(run.Text) {
			m, err := provider.Measure(tok.text, font)
			if err != nil {
				var missing *MissingGlyphError
				if !errors.As(err, &missing) {
					m.Width = consts.FallbackWidth * font.Size * float64(uniseg.GraphemeClusterCount(tok.text))
				}
				if m.Ascent+m.Descent <= 0 {
					m.Ascent = strut.Ascent * run.Scale
					m.Descent = strut.Descent * run.Scale
				}
				diags = append(diags, Diagnostic{
					Kind:    DiagnosticMissingGlyph,
					Message: fmt.Sprintf("measure %q: %v", tok.text, err),
					Offset:  -1,
				})
			}
			units = append(units, BreakUnit{
				Text:    tok.text,
				Run:     run,
				Font:    font,
				Width:   m.Width,
				Ascent:  m.Ascent,
				Descent: m.Descent,
				Offset:  offset,
				Space:   tok.space,
			})
		}
	}

	// 断行机会只出现在空白之后或空白之前；相邻的两个非空白单元（例如 r 与上标 2）不可拆开。
	for i := range units {
		u := &units[i]
		if u.Space || u.Forced || i == len(units)-1 {
			u.BreakableAfter = true
			continue
		}
		next := units[i+1]
		u.BreakableAfter = next.Space || next.Forced
	}
	return units, strut, diags
}

type token struct {
	text  string
	space bool
}

// tokenize 将文本切分为交替的空白/非空白片段。不换行空格视为普通字符。
func tokenize(s string) []token {
	var tokens []token
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, token{text: builder.String(), space: lastWasSpace})
		builder.Reset()
	}
	for _, r := range s {
		isSpace := isBreakingSpace(r)
		if builder.Len() > 0 && lastWasSpace != isSpace {
			flush()
		}
		lastWasSpace = isSpace
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}
