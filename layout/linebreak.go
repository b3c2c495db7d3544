package layout

import "fmt"

// segment 是换行时的原子片段：一串中间不可断开的 BreakUnit、一段空白或一个强制换行。
type segment struct {
	units  []BreakUnit
	width  float64
	space  bool
	forced bool
}

func segmentUnits(units []BreakUnit) []segment {
	var segs []segment
	var cur segment
	flush := func() {
		if len(cur.units) > 0 {
			segs = append(segs, cur)
		}
		cur = segment{}
	}
	for _, u := range units {
		switch {
		case u.Forced:
			flush()
			segs = append(segs, segment{forced: true})
		case u.Space:
			flush()
			segs = append(segs, segment{units: []BreakUnit{u}, width: u.Width, space: true})
		default:
			cur.units = append(cur.units, u)
			cur.width += u.Width
			if u.BreakableAfter {
				flush()
			}
		}
	}
	flush()
	return segs
}

// BreakLines 使用确定性的贪心算法把 BreakUnit 装入行。
//
// wrapWidth 为 nil 时所有单元放在同一行（允许溢出）。否则在
// 当前宽度 + 下一片段宽度 <= wrapWidth 时继续追加，超出则另起一行；
// 若当前行为空，超宽片段独占一行并记录溢出诊断。强制换行总是立即结束当前行。
// 任何行首的空白都会被丢弃，行尾空白不计入行宽。
func BreakLines(units []BreakUnit, wrapWidth *float64, strut Metrics) ([]Line, []Diagnostic) {
	var (
		lines    []Line
		diags    []Diagnostic
		cur      []BreakUnit
		curWidth float64
	)
	finish := func() {
		lines = append(lines, newLine(cur, strut))
		cur = nil
		curWidth = 0
	}
	add := func(seg segment) {
		wasEmpty := len(cur) == 0
		cur = append(cur, seg.units...)
		curWidth += seg.width
		if wrapWidth != nil && wasEmpty && !seg.space && seg.width > *wrapWidth {
			diags = append(diags, Diagnostic{
				Kind:    DiagnosticOverflow,
				Message: fmt.Sprintf("unbreakable text %q (%.2fpt) exceeds wrap width %.2fpt", segmentText(seg), seg.width, *wrapWidth),
				Offset:  -1,
			})
		}
	}

	for _, seg := range segmentUnits(units) {
		if seg.forced {
			finish()
			continue
		}
		if seg.space && len(cur) == 0 {
			continue
		}
		if wrapWidth == nil || len(cur) == 0 || curWidth+seg.width <= *wrapWidth {
			add(seg)
			continue
		}
		finish()
		if seg.space {
			continue
		}
		add(seg)
	}
	finish()

	if wrapWidth != nil {
		for i := range lines {
			if lines[i].Width > *wrapWidth {
				lines[i].Overflow = true
			}
		}
	}
	return lines, diags
}

// newLine 汇总行宽与行高；行尾空白被裁掉，空行使用 strut 高度。
func newLine(units []BreakUnit, strut Metrics) Line {
	end := len(units)
	for end > 0 && units[end-1].Space {
		end--
	}
	units = units[:end]
	if len(units) == 0 {
		return Line{Ascent: strut.Ascent, Descent: strut.Descent}
	}
	ln := Line{Units: units, Ascent: units[0].top(), Descent: units[0].bottom()}
	for _, u := range units {
		ln.Width += u.Width
		if u.top() > ln.Ascent {
			ln.Ascent = u.top()
		}
		if u.bottom() > ln.Descent {
			ln.Descent = u.bottom()
		}
	}
	return ln
}

func segmentText(seg segment) string {
	s := ""
	for _, u := range seg.units {
		s += u.Text
	}
	return s
}
