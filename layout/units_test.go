package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthConversions(t *testing.T) {
	// 1 in = 25.4 mm
	in := Length{Value: 1, Unit: UnitIN}
	if got := in.ToPT(); got != 72 {
		t.Fatalf("1in 转 pt 期望 72，实际 %g", got)
	}
	cm := Length{Value: 2.54, Unit: UnitCM}
	if got := cm.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	mm := Length{Value: 10, Unit: UnitMM}
	if got := mm.ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 转 pt 期望 %g，实际 %g", 10*MmToPt, got)
	}
	if got := (Length{Value: 9}).ToPT(); got != 9 {
		t.Fatalf("无单位数值应按 pt 处理，实际 %g", got)
	}
}

// TestLengthResolveRelative 验证相对单位按容器尺寸解析，绝对单位忽略容器。
func TestLengthResolveRelative(t *testing.T) {
	cases := []struct {
		l    Length
		want float64
	}{
		{Length{Value: 0.25, Unit: UnitNPC}, 100},
		{Length{Value: 40, Unit: UnitPercent}, 160},
		{Length{Value: 12, Unit: UnitPT}, 12},
	}
	for _, tc := range cases {
		if got := tc.l.Resolve(400); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s 在 400pt 容器中期望 %g，实际 %g", tc.l, tc.want, got)
		}
	}
	if !(Length{Value: 1, Unit: UnitNPC}).IsRelative() || (Length{Value: 1, Unit: UnitMM}).IsRelative() {
		t.Fatalf("IsRelative 判断错误")
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"12pt", Length{Value: 12, Unit: UnitPT}},
		{" 3.5mm ", Length{Value: 3.5, Unit: UnitMM}},
		{"0.4npc", Length{Value: 0.4, Unit: UnitNPC}},
		{"40%", Length{Value: 40, Unit: UnitPercent}},
		{"2IN", Length{Value: 2, Unit: UnitIN}},
		{"7", Length{Value: 7, Unit: UnitNone}},
	}
	for _, tc := range cases {
		got, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("解析 %q: got=%+v want=%+v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "pt", "abc", "1.2.3mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("期望 %q 解析失败", bad)
		}
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	factor := LineHeightSpec{Kind: LineHeightFactor, Factor: 1.2}
	if got := factor.Resolve(12); math.Abs(got-14.4) > 1e-9 {
		t.Fatalf("1.2x 行高错误: got=%g", got)
	}
	abs := LineHeightSpec{Kind: LineHeightAbsolute, Len: Length{Value: 6, Unit: UnitMM}}
	if got := abs.Resolve(12); math.Abs(got-6*MmToPt) > 1e-9 {
		t.Fatalf("6mm 行高错误: got=%g", got)
	}
}
