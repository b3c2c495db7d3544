package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/marklabel/markup"
)

func measureLabel(t *testing.T, label string) ([]BreakUnit, Metrics) {
	t.Helper()
	tree, _ := markup.Parse(label)
	runs := Resolve(tree, DefaultConstants())
	units, strut, diags := Measure(runs, &stubMetrics{}, testStyle(), DefaultConstants())
	if len(diags) != 0 {
		t.Fatalf("不应产生度量诊断: %v", diags)
	}
	return units, strut
}

// TestMeasureSuperscriptUnits 检查 "*r*<sup>2</sup> = 0.96" 的单元切分、宽度与上标偏移。
func TestMeasureSuperscriptUnits(t *testing.T) {
	units, strut := measureLabel(t, "*r*<sup>2</sup> = 0.96")
	if strut.Ascent != 8 || strut.Descent != 2 {
		t.Fatalf("strut 错误: %+v", strut)
	}
	wantText := []string{"r", "2", " ", "=", " ", "0.96"}
	if len(units) != len(wantText) {
		t.Fatalf("单元数量错误: %+v", units)
	}
	for i, w := range wantText {
		if units[i].Text != w {
			t.Fatalf("单元 %d 期望 %q，实际 %q", i, w, units[i].Text)
		}
	}
	if units[0].BreakableAfter {
		t.Fatalf("r 与上标 2 之间不应允许断行")
	}
	sup := units[1]
	if math.Abs(sup.Width-3.5) > 1e-9 || math.Abs(sup.Font.Size-7) > 1e-9 {
		t.Fatalf("上标应缩小到 0.7 倍: %+v", sup)
	}
	if math.Abs(sup.Offset-2.4) > 1e-9 {
		t.Fatalf("上标基线偏移期望 2.4，实际 %g", sup.Offset)
	}
	if !units[0].Font.Italic || units[2].Font.Italic {
		t.Fatalf("斜体只应作用于 r")
	}
}

// TestMeasureNoBreakSpace 验证不换行空格不会成为断行机会。
func TestMeasureNoBreakSpace(t *testing.T) {
	units, _ := measureLabel(t, "10\u00a0mm wide")
	if len(units) != 3 || units[0].Text != "10\u00a0mm" {
		t.Fatalf("不换行空格被拆开了: %+v", units)
	}
}

// TestMeasureFallbacks 覆盖缺字与后端失败两种可恢复情况，各产生一条诊断。
func TestMeasureFallbacks(t *testing.T) {
	tree, _ := markup.Parse("price ¤5 fail")
	runs := Resolve(tree, DefaultConstants())
	units, _, diags := Measure(runs, &stubMetrics{}, testStyle(), DefaultConstants())
	if len(diags) != 2 {
		t.Fatalf("期望 2 条诊断，实际 %v", diags)
	}
	for _, d := range diags {
		if d.Kind != DiagnosticMissingGlyph {
			t.Fatalf("诊断类型错误: %v", d)
		}
	}
	last := units[len(units)-1]
	if last.Text != "fail" || last.Width != 20 || last.Ascent != 8 {
		t.Fatalf("失败时应使用 0.5em×字素数的替代宽度与 strut 高度: %+v", last)
	}
}

func TestBreakLinesSingleLineWithoutWrap(t *testing.T) {
	units, strut := measureLabel(t, "a fairly long label that never wraps")
	lines, diags := BreakLines(units, nil, strut)
	if len(lines) != 1 || len(diags) != 0 {
		t.Fatalf("未设置宽度时应为单行: lines=%d diags=%v", len(lines), diags)
	}
	if got := lineTexts(lines)[0]; got != "a fairly long label that never wraps" {
		t.Fatalf("行内容错误: %q", got)
	}
}

// TestBreakLinesGreedy 验证贪心装行：行尾空白裁掉，软换行后的行首空白丢弃。
func TestBreakLinesGreedy(t *testing.T) {
	units, strut := measureLabel(t, "aa bb cc dd")
	lines, diags := BreakLines(units, Size(35), strut)
	if len(diags) != 0 {
		t.Fatalf("不应溢出: %v", diags)
	}
	got := lineTexts(lines)
	want := []string{"aa bb", "cc dd"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("换行结果错误: got=%q want=%q", got, want)
	}
	if lines[0].Width != 25 {
		t.Fatalf("行尾空白不应计入宽度: %g", lines[0].Width)
	}
}

// TestBreakLinesDropsLeadingSpace：标签开头与显式换行后的空白同样被丢弃，不会挤出空行。
func TestBreakLinesDropsLeadingSpace(t *testing.T) {
	units, strut := measureLabel(t, " hello")
	lines, diags := BreakLines(units, Size(25), strut)
	if got := lineTexts(lines); len(got) != 1 || got[0] != "hello" {
		t.Fatalf("行首空白应被丢弃: %q", got)
	}
	if len(diags) != 0 || lines[0].Width != 25 || lines[0].Overflow {
		t.Fatalf("行宽应恰好为 25 且无溢出: width=%g diags=%v", lines[0].Width, diags)
	}

	units, strut = measureLabel(t, "a\n  b")
	lines, _ = BreakLines(units, nil, strut)
	if got := lineTexts(lines); len(got) != 2 || got[1] != "b" || lines[1].Width != 5 {
		t.Fatalf("换行后的行首空白应被丢弃: %q", got)
	}
}

// TestBreakLinesForced 验证显式换行总会结束当前行，空行使用 strut 高度。
func TestBreakLinesForced(t *testing.T) {
	units, strut := measureLabel(t, "one<br><br>two")
	lines, _ := BreakLines(units, nil, strut)
	got := lineTexts(lines)
	if len(got) != 3 || got[0] != "one" || got[1] != "" || got[2] != "two" {
		t.Fatalf("显式换行结果错误: %q", got)
	}
	if lines[1].Height() != 10 {
		t.Fatalf("空行高度应等于 strut 高度，实际 %g", lines[1].Height())
	}
}

// TestBreakLinesOverflow 覆盖超宽单词独占一行并记录诊断。
func TestBreakLinesOverflow(t *testing.T) {
	units, strut := measureLabel(t, "a supercalifragilistic b")
	lines, diags := BreakLines(units, Size(30), strut)
	got := lineTexts(lines)
	if len(got) != 3 || got[1] != "supercalifragilistic" {
		t.Fatalf("超宽单词应独占一行: %q", got)
	}
	if len(diags) != 1 || diags[0].Kind != DiagnosticOverflow {
		t.Fatalf("期望一条溢出诊断: %v", diags)
	}
	if !lines[1].Overflow || lines[0].Overflow {
		t.Fatalf("只有第二行应标记溢出")
	}
}

// TestBreakLinesFiftyWords：50 个单词、换行宽度为 5 个平均单词宽（含空格），约 10 行且每行不超宽。
func TestBreakLinesFiftyWords(t *testing.T) {
	words := make([]string, 50)
	for i := range words {
		words[i] = strings.Repeat("w", 3+i%5)
	}
	units, strut := measureLabel(t, strings.Join(words, " "))
	wrap := 150.0
	lines, diags := BreakLines(units, &wrap, strut)
	if len(diags) != 0 {
		t.Fatalf("不应溢出: %v", diags)
	}
	if n := len(lines); n < 9 || n > 11 {
		t.Fatalf("期望约 10 行，实际 %d", n)
	}
	for i, ln := range lines {
		if ln.Width > wrap {
			t.Fatalf("第 %d 行宽 %g 超过 %g", i, ln.Width, wrap)
		}
	}
}

// TestBreakLinesMonotonic：换行宽度增大时行数不增加。
func TestBreakLinesMonotonic(t *testing.T) {
	units, strut := measureLabel(t, "The *quick* brown fox jumps over the **lazy** dog while r<sup>2</sup> stays attached")
	prev := -1
	for w := 20.0; w <= 500; w += 5 {
		lines, _ := BreakLines(units, &w, strut)
		if prev >= 0 && len(lines) > prev {
			t.Fatalf("宽度 %g 时行数 %d 多于更窄时的 %d", w, len(lines), prev)
		}
		prev = len(lines)
	}
	if prev != 1 {
		t.Fatalf("足够宽时应为单行，实际 %d", prev)
	}
}
