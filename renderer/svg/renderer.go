package svgrenderer

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ByLCY/marklabel/fonts"
	"github.com/ByLCY/marklabel/layout"
	"github.com/ByLCY/marklabel/renderer"
)

// scale 为每 pt 的 SVG 用户单位数；svgo 只接受整数坐标。
const scale = 100

// Renderer 通过 github.com/ajstarks/svgo 输出 SVG。
// 多个标签按输入顺序自上而下排列在同一画布中。
type Renderer struct {
	Margin float64 // pt
	Title  string
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建 SVG 渲染器。
func NewRenderer(margin float64) *Renderer { return &Renderer{Margin: margin} }

func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	return r.RenderPages([]*layout.Result{result})
}

func (r *Renderer) RenderPages(results []*layout.Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("缺少可渲染的标签")
	}
	pages := make([]renderer.Page, len(results))
	width, height := 0.0, 0.0
	for i, res := range results {
		if res == nil {
			return nil, fmt.Errorf("第 %d 个渲染结果为空", i)
		}
		pages[i] = renderer.PageFor(res, r.Margin)
		pages[i].OffsetY += height
		width = math.Max(width, pages[i].Width)
		height += pages[i].Height
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := int(math.Ceil(width)), int(math.Ceil(height))
	canvas.Startview(w, h, 0, 0, w*scale, h*scale)
	if r.Title != "" {
		canvas.Title(r.Title)
	}
	for i, res := range results {
		for _, cmd := range res.Commands {
			switch cmd.Kind {
			case layout.CommandRect:
				drawRect(canvas, cmd.Rect, pages[i])
			case layout.CommandGlyphRun:
				drawGlyphRun(canvas, cmd.Glyph, pages[i])
			}
		}
	}
	canvas.End()
	return buf.Bytes(), nil
}

func drawRect(canvas *svg.SVG, rc *layout.RectCommand, page renderer.Page) {
	if rc == nil {
		return
	}
	style := "fill:none"
	if rc.Fill != nil {
		style = "fill:" + rgb(*rc.Fill)
	}
	if rc.Stroke != nil && rc.StrokeWidth > 0 {
		style += fmt.Sprintf(";stroke:%s;stroke-width:%d", rgb(*rc.Stroke), units(rc.StrokeWidth))
	}
	canvas.Rect(units(rc.X+page.OffsetX), units(rc.Y+page.OffsetY), units(rc.W), units(rc.H), style)
}

// drawGlyphRun 把文字放在基线原点，再用 rotate 表达朝向（SVG 中正角度为顺时针）。
// 纯空白的片段不可见，直接跳过。
func drawGlyphRun(canvas *svg.SVG, run *layout.GlyphRun, page renderer.Page) {
	if run == nil || strings.TrimSpace(run.Text) == "" {
		return
	}
	x, y := units(run.BaselineX+page.OffsetX), units(run.BaselineY+page.OffsetY)
	if run.Orientation != layout.Upright {
		canvas.Gtransform(fmt.Sprintf("translate(%d,%d) rotate(%g)", x, y, -run.Orientation.Degrees()))
		canvas.Text(0, 0, run.Text, textStyle(run))
		canvas.Gend()
		return
	}
	canvas.Text(x, y, run.Text, textStyle(run))
}

func textStyle(run *layout.GlyphRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "font-family:%s;font-size:%d;fill:%s", cssFamily(run.Font.Family), units(run.Font.Size), rgb(run.Color))
	if run.Font.Bold {
		b.WriteString(";font-weight:bold")
	}
	if run.Font.Italic {
		b.WriteString(";font-style:italic")
	}
	return b.String()
}

// cssFamily 把内置字族映射为常见的 CSS 字体名，并带上通用字族兜底。
func cssFamily(name string) string {
	switch fonts.Canonical(name) {
	case "go":
		return "'Go',sans-serif"
	case "go-mono":
		return "'Go Mono',monospace"
	case "latin-modern":
		return "'Latin Modern Roman',serif"
	default:
		return fmt.Sprintf("'%s',sans-serif", strings.ReplaceAll(name, "'", ""))
	}
}

func rgb(c layout.Color) string { return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B) }

func units(pt float64) int { return int(math.Round(pt * scale)) }
