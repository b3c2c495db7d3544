package layout

import (
	"errors"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// stubMetrics 是测试用的等宽度量后端：每个字符 0.5em，ascent 0.8em，descent 0.2em。
// 含 '¤' 的文本报告缺字（替代宽度同为 0.5em）；含 "fail" 的文本返回普通错误。
type stubMetrics struct {
	calls atomic.Int64
}

func (s *stubMetrics) Measure(text string, f Font) (Metrics, error) {
	s.calls.Add(1)
	if strings.Contains(text, "fail") {
		return Metrics{}, errors.New("stub failure")
	}
	m := Metrics{
		Width:   float64(utf8.RuneCountInString(text)) * 0.5 * f.Size,
		Ascent:  0.8 * f.Size,
		Descent: 0.2 * f.Size,
	}
	if strings.ContainsRune(text, '¤') {
		return m, &MissingGlyphError{Rune: '¤', Fallback: 0.5 * f.Size}
	}
	return m, nil
}

// testStyle 使用 10pt，便于心算：每个字符 5pt，行高 8+2。
func testStyle() TextStyle {
	s := DefaultTextStyle()
	s.Size = 10
	return s
}

func baseRequest(label string) Request {
	return Request{
		Label:   label,
		Style:   testStyle(),
		VJust:   1,
		Metrics: &stubMetrics{},
	}
}

func lineTexts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		var b strings.Builder
		for _, u := range ln.Units {
			b.WriteString(u.Text)
		}
		out[i] = b.String()
	}
	return out
}
