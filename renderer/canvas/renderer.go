package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/marklabel/fonts"
	"github.com/ByLCY/marklabel/layout"
	"github.com/ByLCY/marklabel/metrics"
	"github.com/ByLCY/marklabel/renderer"
)

// Renderer draws layout results via github.com/tdewolff/canvas and doubles as
// the layout.MetricsProvider, so measurement and drawing share the same faces.
type Renderer struct {
	margin  float64 // pt
	title   string
	creator string

	// injected resources, by family name
	fontBlobs map[string][]byte

	// glyphs reports missing glyphs from the same font data
	glyphs *metrics.SFNT

	// canvas 字体面不保证并发安全，度量时串行化
	measureMu sync.Mutex

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
	fallbackName   string
}

var (
	_ renderer.Renderer      = (*Renderer)(nil)
	_ layout.MetricsProvider = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// Margin is the blank border around each label, in pt.
	Margin float64
	// Fonts registers extra families; the same data serves every face.
	Fonts map[string]Resource
	// Fallback is used for families that are neither registered nor built in.
	Fallback string
	Title    string
	Creator  string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer using the built-in fonts only.
func NewRenderer() *Renderer {
	r, _ := NewRendererWithOptions(Options{})
	return r
}

// NewRendererWithOptions creates a renderer with injected font resources.
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	fallback := opts.Fallback
	if fallback == "" {
		fallback = "go"
	}
	creator := opts.Creator
	if creator == "" {
		creator = "marklabel"
	}
	r := &Renderer{
		margin:       opts.Margin,
		title:        opts.Title,
		creator:      creator,
		fontBlobs:    map[string][]byte{},
		glyphs:       metrics.NewSFNT(fallback),
		fontFamilies: map[string]*canvas.FontFamily{},
		fallbackName: fonts.Canonical(fallback),
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		data := res.Bytes
		if len(data) == 0 && res.Path != "" {
			var err error
			if data, err = os.ReadFile(res.Path); err != nil {
				return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
			}
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("字体 %s 缺少数据", name)
		}
		key := fonts.Canonical(name)
		for _, face := range allFaces {
			if err := r.glyphs.Register(key, face, data); err != nil {
				return nil, err
			}
		}
		r.fontBlobs[key] = data
	}
	return r, nil
}

var allFaces = []fonts.Face{{}, {Bold: true}, {Italic: true}, {Bold: true, Italic: true}}

// Measure implements layout.MetricsProvider. canvas reports lengths in mm;
// they are converted back to pt at this boundary.
func (r *Renderer) Measure(text string, f layout.Font) (layout.Metrics, error) {
	r.measureMu.Lock()
	face, err := r.fontFace(f, layout.Color{})
	if err != nil {
		r.measureMu.Unlock()
		return layout.Metrics{}, err
	}
	fm := face.Metrics()
	m := layout.Metrics{
		Width:   toPt(face.TextWidth(text)),
		Ascent:  toPt(math.Abs(fm.Ascent)),
		Descent: toPt(math.Abs(fm.Descent)),
	}
	r.measureMu.Unlock()
	if _, err := r.glyphs.Measure(text, f); err != nil {
		var missing *layout.MissingGlyphError
		if errors.As(err, &missing) {
			return m, missing
		}
	}
	return m, nil
}

// Render renders a single label into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	return r.RenderPages([]*layout.Result{result})
}

// RenderPages renders one PDF page per label, each page sized to the label's bounds.
func (r *Renderer) RenderPages(results []*layout.Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("缺少可渲染的标签")
	}
	for i, res := range results {
		if res == nil {
			return nil, fmt.Errorf("第 %d 个渲染结果为空", i)
		}
	}

	var buf bytes.Buffer
	first := renderer.PageFor(results[0], r.margin)
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	writer.SetInfo(r.title, "", "", "", r.creator)
	for i, res := range results {
		page := renderer.PageFor(res, r.margin)
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawCommands(ctx, res.Commands, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawCommands(ctx *canvas.Context, cmds []layout.DrawCommand, page renderer.Page) error {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case layout.CommandRect:
			r.drawRect(ctx, cmd.Rect, page)
		case layout.CommandGlyphRun:
			if err := r.drawGlyphRun(ctx, cmd.Glyph, page); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawRect 绘制背景/边框矩形（坐标为 pt，在此换算为 mm）
func (r *Renderer) drawRect(ctx *canvas.Context, rc *layout.RectCommand, page renderer.Page) {
	if rc == nil {
		return
	}
	if rc.Fill != nil {
		ctx.SetFillColor(colorFromLayout(*rc.Fill))
	} else {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	}
	if rc.Stroke != nil && rc.StrokeWidth > 0 {
		ctx.SetStrokeColor(colorFromLayout(*rc.Stroke))
		ctx.SetStrokeWidth(toMm(rc.StrokeWidth))
	} else {
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeWidth(0)
	}
	x := toMm(rc.X + page.OffsetX)
	y := toMm(rc.Y + page.OffsetY)
	ctx.DrawPath(x, y, canvas.Rectangle(toMm(rc.W), toMm(rc.H)))
}

// drawGlyphRun 在基线原点处绘制一段文字；朝向通过视图矩阵绕基线原点旋转实现。
func (r *Renderer) drawGlyphRun(ctx *canvas.Context, run *layout.GlyphRun, page renderer.Page) error {
	if run == nil || run.Text == "" {
		return nil
	}
	face, err := r.fontFace(run.Font, run.Color)
	if err != nil {
		return err
	}
	x := toMm(run.BaselineX + page.OffsetX)
	y := toMm(run.BaselineY + page.OffsetY)
	line := canvas.NewTextLine(face, run.Text, canvas.Left)

	ctx.Push()
	defer ctx.Pop()
	// y 轴向下时，屏幕上的逆时针旋转对应负角度。
	ctx.ComposeView(canvas.Identity.Translate(x, y).Rotate(-run.Orientation.Degrees()))
	ctx.DrawText(0, 0, line)
	return nil
}

func (r *Renderer) fontFace(f layout.Font, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(f.Family)
	if err != nil {
		return nil, err
	}
	return family.Face(f.Size, colorFromLayout(col), fontStyle(f), canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	key := fonts.Canonical(name)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}

	family := canvas.NewFontFamily(key)
	if err := r.loadFamily(family, key); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, err
		}
		r.fontFamilies[key] = fallback
		return fallback, nil
	}
	r.fontFamilies[key] = family
	return family, nil
}

// loadFamily 为字族加载全部四个字面：注册的字体数据优先，其次是内置字体。
func (r *Renderer) loadFamily(family *canvas.FontFamily, key string) error {
	for _, face := range allFaces {
		data, ok := r.fontBlobs[key]
		if !ok {
			var err error
			if data, err = fonts.Load(key, face); err != nil {
				return err
			}
		}
		if err := family.LoadFont(data, 0, canvasStyle(face)); err != nil {
			return fmt.Errorf("加载字体 %s 失败: %w", key, err)
		}
	}
	return nil
}

// fallback 需在持有 fontMu 时调用。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	family := canvas.NewFontFamily(r.fallbackName)
	if err := r.loadFamily(family, r.fallbackName); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func fontStyle(f layout.Font) canvas.FontStyle {
	return canvasStyle(fonts.Face{Bold: f.Bold, Italic: f.Italic})
}

func canvasStyle(face fonts.Face) canvas.FontStyle {
	style := canvas.FontRegular
	if face.Bold {
		style = canvas.FontBold
	}
	if face.Italic {
		style |= canvas.FontItalic
	}
	return style
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
