package layout

// 该文件定义排版流水线各阶段的数据模型，供布局计算、绘制设备与调试 JSON 共用。
// 坐标系：原点在左上角，y 轴向下，长度单位统一为 pt。

// BaselineShift 表示上标/下标的基线偏移类型，不可嵌套叠加（以最内层为准）。
type BaselineShift int

const (
	ShiftNone BaselineShift = iota
	ShiftSuper
	ShiftSub
)

func (s BaselineShift) String() string {
	switch s {
	case ShiftSuper:
		return "super"
	case ShiftSub:
		return "sub"
	default:
		return "none"
	}
}

// StyledRun 是拍平后的一段文本及其生效样式。
// Break 为 true 时表示显式换行哨兵，Text 为空。
type StyledRun struct {
	Text   string        `json:"text"`
	Bold   bool          `json:"bold,omitempty"`
	Italic bool          `json:"italic,omitempty"`
	Shift  BaselineShift `json:"shift,omitempty"`
	Scale  float64       `json:"scale"`
	Break  bool          `json:"break,omitempty"`
}

// BreakUnit 是换行器眼中不可再分的一段文本，不会跨越两个 StyledRun。
type BreakUnit struct {
	Text    string    `json:"text"`
	Run     StyledRun `json:"run"`
	Font    Font      `json:"font"`
	Width   float64   `json:"width"`
	Ascent  float64   `json:"ascent"`
	Descent float64   `json:"descent"`
	// Offset 为基线偏移量（正值上移），由基础字体的 ascent 按比例换算。
	Offset         float64 `json:"offset,omitempty"`
	BreakableAfter bool    `json:"breakableAfter"`
	Space          bool    `json:"space,omitempty"`
	Forced         bool    `json:"forced,omitempty"`
}

// top/bottom 返回考虑基线偏移后的上升与下降高度。
func (u BreakUnit) top() float64    { return u.Ascent + u.Offset }
func (u BreakUnit) bottom() float64 { return u.Descent - u.Offset }

// Line 表示排版后的一行。
type Line struct {
	Units     []BreakUnit `json:"units"`
	Width     float64     `json:"width"`
	Ascent    float64     `json:"ascent"`
	Descent   float64     `json:"descent"`
	GapBefore float64     `json:"gapBefore,omitempty"`
	Overflow  bool        `json:"overflow,omitempty"`
}

// Height 为行本身的高度（不含行间距）。
func (l Line) Height() float64 { return l.Ascent + l.Descent }

// EdgeInsets 描述上右下左四个方向的留白（pt）。
type EdgeInsets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Uniform 返回四边相同的留白。
func Uniform(v float64) EdgeInsets { return EdgeInsets{Top: v, Right: v, Bottom: v, Left: v} }

func (e EdgeInsets) horizontal() float64 { return e.Left + e.Right }
func (e EdgeInsets) vertical() float64   { return e.Top + e.Bottom }

// Point 是设备无关坐标系中的一点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Box 是完成尺寸计算与定位参数解析后的标签盒子。
// ContentWidth/ContentHeight 包含 padding；Width/Height 在此基础上再加 margin。
// 所有尺寸都在盒子自身的“正立”坐标系中表达，旋转只在最终坐标变换时生效。
type Box struct {
	Lines         []Line      `json:"lines"`
	TextWidth     float64     `json:"textWidth"`
	TextHeight    float64     `json:"textHeight"`
	ContentWidth  float64     `json:"contentWidth"`
	ContentHeight float64     `json:"contentHeight"`
	Width         float64     `json:"width"`
	Height        float64     `json:"height"`
	Padding       EdgeInsets  `json:"padding"`
	Margin        EdgeInsets  `json:"margin"`
	Orientation   Orientation `json:"orientation"`
	Anchor        Point       `json:"anchor"`
	HJust         float64     `json:"hjust"`
	VJust         float64     `json:"vjust"`
	HAlign        float64     `json:"halign"`
	VAlign        float64     `json:"valign"`
	Color         Color       `json:"color"`
	Fill          *Color      `json:"fill,omitempty"`
	Stroke        *Color      `json:"stroke,omitempty"`
	StrokeWidth   float64     `json:"strokeWidth,omitempty"`
	Overflow      bool        `json:"overflow,omitempty"`
}

// CommandKind 区分绘制指令类型。
type CommandKind int

const (
	CommandRect CommandKind = iota
	CommandGlyphRun
)

// DrawCommand 是交给宿主绘图设备的最终绘制指令，Rect 与 Glyph 二选一。
type DrawCommand struct {
	Kind  CommandKind  `json:"kind"`
	Rect  *RectCommand `json:"rect,omitempty"`
	Glyph *GlyphRun    `json:"glyph,omitempty"`
}

// RectCommand 表示背景/边框矩形（最终坐标，轴对齐）。
type RectCommand struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`
	Fill        *Color  `json:"fill,omitempty"`
	Stroke      *Color  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// GlyphRun 表示一段定位在基线上的文字；Orientation 告诉设备按何种角度绘制。
type GlyphRun struct {
	BaselineX   float64       `json:"baselineX"`
	BaselineY   float64       `json:"baselineY"`
	Text        string        `json:"text"`
	Font        Font          `json:"font"`
	Color       Color         `json:"color"`
	Shift       BaselineShift `json:"shift,omitempty"`
	Orientation Orientation   `json:"orientation"`
}

// Extents 是宿主布局系统需要预留的外接尺寸（含 margin，已按方向交换宽高）。
type Extents struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect 为轴对齐矩形，用于描述盒子在最终坐标中的外接范围。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result 是 RenderLabel 的输出。
type Result struct {
	Commands    []DrawCommand `json:"commands"`
	Extents     Extents       `json:"extents"`
	Bounds      Rect          `json:"bounds"`
	Box         Box           `json:"box"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty"`
}
