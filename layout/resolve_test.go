package layout

import (
	"testing"

	"github.com/ByLCY/marklabel/markup"
)

func resolveLabel(label string) []StyledRun {
	tree, _ := markup.Parse(label)
	return Resolve(tree, DefaultConstants())
}

// TestResolvePlainRoundTrip 验证：纯文本标签只产生一个默认样式的 run，内容与原文一致。
func TestResolvePlainRoundTrip(t *testing.T) {
	label := "Sepal length (cm), 2019 – 2024"
	runs := resolveLabel(label)
	if len(runs) != 1 {
		t.Fatalf("期望 1 个 run，实际 %d: %+v", len(runs), runs)
	}
	want := StyledRun{Text: label, Scale: 1}
	if runs[0] != want {
		t.Fatalf("run 不一致: got=%+v want=%+v", runs[0], want)
	}
}

// TestResolveItalicAndSuperscript 覆盖 "*r*<sup>2</sup> = 0.96"：斜体 r、上标 2、普通文本。
func TestResolveItalicAndSuperscript(t *testing.T) {
	runs := resolveLabel("*r*<sup>2</sup> = 0.96")
	want := []StyledRun{
		{Text: "r", Italic: true, Scale: 1},
		{Text: "2", Shift: ShiftSuper, Scale: 0.7},
		{Text: " = 0.96", Scale: 1},
	}
	if len(runs) != len(want) {
		t.Fatalf("run 数量错误: got=%+v", runs)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("run %d: got=%+v want=%+v", i, runs[i], want[i])
		}
	}
}

// TestResolveComposition 验证样式叠加：粗斜体取或，上下标以最内层为准且字号倍数相乘。
func TestResolveComposition(t *testing.T) {
	runs := resolveLabel("*a **b** <sup>c<sub>d</sub></sup>*\ne")
	want := []StyledRun{
		{Text: "a ", Italic: true, Scale: 1},
		{Text: "b", Italic: true, Bold: true, Scale: 1},
		{Text: " ", Italic: true, Scale: 1},
		{Text: "c", Italic: true, Shift: ShiftSuper, Scale: 0.7},
		{Text: "d", Italic: true, Shift: ShiftSub, Scale: 0.7 * 0.7},
		{Break: true, Scale: 1},
		{Text: "e", Scale: 1},
	}
	if len(runs) != len(want) {
		t.Fatalf("run 数量错误: got=%+v", runs)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("run %d: got=%+v want=%+v", i, runs[i], want[i])
		}
	}
}

func TestResolveCustomScriptScale(t *testing.T) {
	tree, _ := markup.Parse("x<sub>i</sub>")
	consts := DefaultConstants()
	consts.ScriptScale = 0.5
	runs := Resolve(tree, consts)
	if len(runs) != 2 || runs[1].Scale != 0.5 {
		t.Fatalf("自定义上下标倍数未生效: %+v", runs)
	}
}
