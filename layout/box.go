package layout

import (
	"fmt"
	"strings"
)

// Orientation 是盒子最终的朝向，四选一且不累积。
type Orientation int

const (
	Upright  Orientation = iota // 0°
	Left                        // 逆时针 90°，文字自下而上
	Inverted                    // 180°
	Right                       // 顺时针 90°，文字自上而下
)

func (o Orientation) String() string {
	switch o {
	case Upright:
		return "upright"
	case Left:
		return "left"
	case Inverted:
		return "inverted"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Degrees 返回逆时针旋转角度（屏幕视角）。
func (o Orientation) Degrees() float64 {
	switch o {
	case Left:
		return 90
	case Inverted:
		return 180
	case Right:
		return 270
	default:
		return 0
	}
}

// MarshalText 让调试 JSON 输出朝向名称。
func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o Orientation) valid() bool { return o >= Upright && o <= Right }

// swapsAxes 表示旋转 90/270 度时宽高互换。
func (o Orientation) swapsAxes() bool { return o == Left || o == Right }

// ParseOrientation 接受名称或角度（0/90/180/270）。
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "upright", "0":
		return Upright, nil
	case "left", "90":
		return Left, nil
	case "inverted", "180":
		return Inverted, nil
	case "right", "270", "-90":
		return Right, nil
	default:
		return Upright, &ConfigError{Field: "orientation", Reason: fmt.Sprintf("unknown value %q", s)}
	}
}

// BoxConfig 是 Layout 所需的全部参数。Width/Height 为宿主坐标系下的目标尺寸，
// 旋转 90/270 度时由 Layout 自行交换。
type BoxConfig struct {
	Padding     EdgeInsets
	Margin      EdgeInsets
	Width       *float64
	Height      *float64
	Orientation Orientation
	Anchor      Point
	HJust       float64
	VJust       float64
	HAlign      float64
	VAlign      float64
	Color       Color
	Fill        *Color
	Stroke      *Color
	StrokeWidth float64
	// LineGap 是相邻两行之间的额外间隙。
	LineGap float64
}

// frameTargets 返回盒子自身坐标系下的目标宽高。
func (c BoxConfig) frameTargets() (w, h *float64) {
	if c.Orientation.swapsAxes() {
		return c.Height, c.Width
	}
	return c.Width, c.Height
}

// WrapWidth 由目标宽度推导换行宽度：目标 = margin + padding + 内容。
// 未指定目标宽度时返回 nil（单行模式）。
func (c BoxConfig) WrapWidth() *float64 {
	w, _ := c.frameTargets()
	if w == nil {
		return nil
	}
	avail := *w - c.Margin.horizontal() - c.Padding.horizontal()
	if avail < 0 {
		avail = 0
	}
	return &avail
}

const overflowEpsilon = 1e-9

// Layout 根据行计算盒子尺寸。若目标尺寸大于自然尺寸则扩展盒子，
// 若小于可达到的最小尺寸则盒子溢出并记录诊断，绝不裁剪。
func Layout(lines []Line, cfg BoxConfig) (Box, []Diagnostic) {
	var diags []Diagnostic
	box := Box{
		Lines:       make([]Line, len(lines)),
		Padding:     cfg.Padding,
		Margin:      cfg.Margin,
		Orientation: cfg.Orientation,
		Anchor:      cfg.Anchor,
		HJust:       cfg.HJust,
		VJust:       cfg.VJust,
		HAlign:      cfg.HAlign,
		VAlign:      cfg.VAlign,
		Color:       cfg.Color,
		Fill:        cfg.Fill,
		Stroke:      cfg.Stroke,
		StrokeWidth: cfg.StrokeWidth,
	}
	copy(box.Lines, lines)
	for i := range box.Lines {
		ln := &box.Lines[i]
		if i == 0 {
			ln.GapBefore = 0
		} else {
			ln.GapBefore = cfg.LineGap
		}
		if ln.Width > box.TextWidth {
			box.TextWidth = ln.Width
		}
		if ln.Overflow {
			box.Overflow = true
		}
		box.TextHeight += ln.GapBefore + ln.Height()
	}

	box.ContentWidth = box.TextWidth + cfg.Padding.horizontal()
	box.ContentHeight = box.TextHeight + cfg.Padding.vertical()
	box.Width = box.ContentWidth + cfg.Margin.horizontal()
	box.Height = box.ContentHeight + cfg.Margin.vertical()

	fw, fh := cfg.frameTargets()
	if fw != nil {
		switch {
		case *fw > box.Width:
			box.Width = *fw
			box.ContentWidth = *fw - cfg.Margin.horizontal()
		case *fw < box.Width-overflowEpsilon:
			box.Overflow = true
			diags = append(diags, Diagnostic{
				Kind:    DiagnosticOverflow,
				Message: fmt.Sprintf("box width %.2fpt exceeds target width %.2fpt", box.Width, *fw),
				Offset:  -1,
			})
		}
	}
	if fh != nil {
		switch {
		case *fh > box.Height:
			box.Height = *fh
			box.ContentHeight = *fh - cfg.Margin.vertical()
		case *fh < box.Height-overflowEpsilon:
			box.Overflow = true
			diags = append(diags, Diagnostic{
				Kind:    DiagnosticOverflow,
				Message: fmt.Sprintf("box height %.2fpt exceeds target height %.2fpt", box.Height, *fh),
				Offset:  -1,
			})
		}
	}
	return box, diags
}

// Extents 返回宿主坐标系下需要预留的宽高。
func (b Box) Extents() Extents {
	if b.Orientation.swapsAxes() {
		return Extents{Width: b.Height, Height: b.Width}
	}
	return Extents{Width: b.Width, Height: b.Height}
}

// Bounds 返回盒子（含 margin）在宿主坐标系中的外接矩形。
func (b Box) Bounds() Rect {
	return b.deviceRect(0, 0, b.Width, b.Height)
}

// toDevice 把盒子坐标（原点为含 margin 的左上角）映射到宿主坐标：
// 先按 hjust/vjust 相对锚点平移，再绕锚点旋转。90° 的整数倍旋转只交换/取反分量，结果精确。
func (b Box) toDevice(x, y float64) (float64, float64) {
	lx := x - b.HJust*b.Width
	ly := y - (1-b.VJust)*b.Height
	switch b.Orientation {
	case Left:
		return b.Anchor.X + ly, b.Anchor.Y - lx
	case Inverted:
		return b.Anchor.X - lx, b.Anchor.Y - ly
	case Right:
		return b.Anchor.X - ly, b.Anchor.Y + lx
	default:
		return b.Anchor.X + lx, b.Anchor.Y + ly
	}
}

// deviceRect 将盒子坐标中的矩形变换为宿主坐标中的轴对齐矩形。
func (b Box) deviceRect(x, y, w, h float64) Rect {
	x1, y1 := b.toDevice(x, y)
	x2, y2 := b.toDevice(x+w, y+h)
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
