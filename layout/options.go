package layout

import (
	"fmt"

	"go.uber.org/zap"
)

// Font 描述一次度量/绘制所用的字体（字号为 pt）。
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Weight int     `json:"weight,omitempty"`
	Slant  float64 `json:"slant,omitempty"`
}

// Metrics 是度量后端返回的文字尺寸（pt）。
type Metrics struct {
	Width   float64 `json:"width"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// MetricsProvider 负责测量一段文字。实现必须是只读且确定性的，
// 并允许多个流水线并发调用；内部若有缓存需自行保证并发安全。
type MetricsProvider interface {
	Measure(text string, font Font) (Metrics, error)
}

// MissingGlyphError 表示字体缺少某个字形。返回该错误时，随同返回的 Metrics
// 已经用 Fallback 宽度替代了缺失字形，排版可以继续。
type MissingGlyphError struct {
	Rune     rune
	Fallback float64
}

func (e *MissingGlyphError) Error() string {
	return fmt.Sprintf("missing glyph %q (U+%04X), fallback width %g", e.Rune, e.Rune, e.Fallback)
}

// TextStyle 是标签的默认文字样式。
type TextStyle struct {
	Family      string  `json:"family"`
	Size        float64 `json:"size"`
	Color       Color   `json:"color"`
	BoldWeight  int     `json:"boldWeight"`
	ItalicSlant float64 `json:"italicSlant"`
}

// DefaultTextStyle 返回 11pt 的深灰色 Go 字体。
func DefaultTextStyle() TextStyle {
	return TextStyle{Family: "go", Size: 11, Color: Color{R: 30, G: 30, B: 30}, BoldWeight: 700, ItalicSlant: 12}
}

// font 根据 run 的样式推导度量用字体。
func (s TextStyle) font(run StyledRun) Font {
	f := Font{Family: s.Family, Size: s.Size * run.Scale, Weight: 400}
	if run.Bold {
		f.Bold = true
		f.Weight = s.BoldWeight
	}
	if run.Italic {
		f.Italic = true
		f.Slant = s.ItalicSlant
	}
	return f
}

// Constants 汇总排版中的可调常量；以显式结构体传入，便于测试时覆盖。
type Constants struct {
	// ScriptScale 是上标/下标相对父级的字号倍数。
	ScriptScale float64 `json:"scriptScale"`
	// SuperShift/SubShift 为基线偏移占基础字体 ascent 的比例。
	SuperShift float64 `json:"superShift"`
	SubShift   float64 `json:"subShift"`
	// LineHeight 决定行距：相邻行之间的间隙 = max(行高 - 支撑行高度, 0)。
	LineHeight LineHeightSpec `json:"lineHeight"`
	// FallbackWidth 为度量失败时每个字素的替代宽度（em 比例）。
	FallbackWidth float64 `json:"fallbackWidth"`
}

// DefaultConstants 返回默认常量。
func DefaultConstants() Constants {
	return Constants{
		ScriptScale:   0.7,
		SuperShift:    0.3,
		SubShift:      -0.2,
		LineHeight:    LineHeightSpec{Kind: LineHeightFactor, Factor: 1.2},
		FallbackWidth: 0.5,
	}
}

// Wrap 保存已由宿主解析为 pt 的目标宽高；nil 表示未指定。
type Wrap struct {
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Size 是构造 Wrap 时的小工具。
func Size(v float64) *float64 { return &v }

// Request 汇总一次 RenderLabel 调用的全部输入。
type Request struct {
	Label       string
	Style       TextStyle
	Wrap        Wrap
	Padding     EdgeInsets
	Margin      EdgeInsets
	HJust       float64
	VJust       float64
	HAlign      float64
	VAlign      float64
	Orientation Orientation
	Anchor      Point
	Fill        *Color
	Stroke      *Color
	StrokeWidth float64
	// Data 不为空时，先用 binding.Interpolate 展开 ${path} 占位符。
	Data    any
	Metrics MetricsProvider
	// Constants 为空时使用引擎的常量。
	Constants *Constants
}

// Option 配置 Engine。
type Option func(*Engine)

// WithConstants 覆盖默认常量。
func WithConstants(c Constants) Option {
	return func(e *Engine) { e.constants = c }
}

// WithLogger 注入用于报告诊断信息的 logger。
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
