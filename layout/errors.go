package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration 是所有致命配置错误的哨兵值，可用 errors.Is 判断。
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigError 描述具体哪个参数不合法。
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// DiagnosticKind 区分可恢复事件的来源。
type DiagnosticKind int

const (
	DiagnosticMarkup DiagnosticKind = iota
	DiagnosticMissingGlyph
	DiagnosticOverflow
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticMarkup:
		return "markup"
	case DiagnosticMissingGlyph:
		return "missing-glyph"
	case DiagnosticOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// MarshalText 让调试 JSON 输出可读的类型名。
func (k DiagnosticKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Diagnostic 是一条非致命的诊断信息，随结果一并返回。
// Offset 为标签中的字节偏移，无法定位时为 -1。
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
	Offset  int            `json:"offset"`
}

func (d Diagnostic) String() string {
	if d.Offset < 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s at %d: %s", d.Kind, d.Offset, d.Message)
}

// validate 在任何度量工作开始之前检查请求，返回第一个致命错误。
func validate(req Request, consts Constants, metrics MetricsProvider) error {
	if metrics == nil {
		return &ConfigError{Field: "metrics", Reason: "must not be nil"}
	}
	if !finite(req.Style.Size) || req.Style.Size <= 0 {
		return &ConfigError{Field: "style.size", Reason: fmt.Sprintf("must be positive, got %g", req.Style.Size)}
	}
	for _, opt := range []struct {
		name string
		v    *float64
	}{{"wrap.width", req.Wrap.Width}, {"wrap.height", req.Wrap.Height}} {
		if opt.v != nil && (!finite(*opt.v) || *opt.v < 0) {
			return &ConfigError{Field: opt.name, Reason: fmt.Sprintf("must be a non-negative length, got %g", *opt.v)}
		}
	}
	for _, j := range []struct {
		name string
		v    float64
	}{{"hjust", req.HJust}, {"vjust", req.VJust}, {"halign", req.HAlign}, {"valign", req.VAlign}} {
		if math.IsNaN(j.v) || j.v < 0 || j.v > 1 {
			return &ConfigError{Field: j.name, Reason: fmt.Sprintf("must be within [0,1], got %g", j.v)}
		}
	}
	for _, e := range []struct {
		name  string
		inset EdgeInsets
	}{{"padding", req.Padding}, {"margin", req.Margin}} {
		for _, v := range []float64{e.inset.Top, e.inset.Right, e.inset.Bottom, e.inset.Left} {
			if !finite(v) || v < 0 {
				return &ConfigError{Field: e.name, Reason: fmt.Sprintf("must be non-negative, got %g", v)}
			}
		}
	}
	if !req.Orientation.valid() {
		return &ConfigError{Field: "orientation", Reason: fmt.Sprintf("unknown value %d", int(req.Orientation))}
	}
	if !finite(req.Anchor.X) || !finite(req.Anchor.Y) {
		return &ConfigError{Field: "anchor", Reason: "must be finite"}
	}
	if !finite(req.StrokeWidth) || req.StrokeWidth < 0 {
		return &ConfigError{Field: "strokeWidth", Reason: fmt.Sprintf("must be non-negative, got %g", req.StrokeWidth)}
	}
	if consts.ScriptScale <= 0 || !finite(consts.ScriptScale) {
		return &ConfigError{Field: "constants.scriptScale", Reason: "must be positive"}
	}
	if consts.FallbackWidth < 0 || !finite(consts.FallbackWidth) {
		return &ConfigError{Field: "constants.fallbackWidth", Reason: "must be non-negative"}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
