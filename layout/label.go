package layout

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/ByLCY/marklabel/binding"
	"github.com/ByLCY/marklabel/markup"
)

// maxCacheEntries 限制与宽度无关的缓存条目数，超过后整体清空。
const maxCacheEntries = 1024

// Engine 串联解析、样式拍平、度量、换行、盒子布局与绘制六个阶段。
// 前三个阶段与换行宽度无关，按 (标签, 样式, 常量) 缓存；容器尺寸变化后再次调用
// Render 只会重跑后三个阶段。Engine 可被多个 goroutine 并发使用。
type Engine struct {
	metrics   MetricsProvider
	constants Constants
	logger    *zap.Logger

	mu    sync.RWMutex
	cache map[prepKey]*prepared
}

type prepKey struct {
	label  string
	style  TextStyle
	consts Constants
}

// prepared 保存宽度无关阶段的产物，创建后只读。
type prepared struct {
	tree  markup.Node
	runs  []StyledRun
	units []BreakUnit
	strut Metrics
	diags []Diagnostic
}

// NewEngine 创建绑定到某个度量后端的引擎。
func NewEngine(metrics MetricsProvider, opts ...Option) *Engine {
	e := &Engine{
		metrics:   metrics,
		constants: DefaultConstants(),
		logger:    zap.NewNop(),
		cache:     map[prepKey]*prepared{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RenderLabel 是单次调用的入口：使用 req.Metrics 作为度量后端，不保留缓存。
func RenderLabel(req Request) (*Result, error) {
	return NewEngine(req.Metrics).Render(req)
}

// Render 排版一个标签。Request.Metrics 会被忽略，始终使用引擎自身的度量后端。
// 配置非法时返回 ErrInvalidConfiguration 且不产生任何绘制指令；
// 其余问题（标记错误、缺字、溢出）都作为诊断随结果返回。
func (e *Engine) Render(req Request) (*Result, error) {
	consts := e.constants
	if req.Constants != nil {
		consts = *req.Constants
	}
	if err := validate(req, consts, e.metrics); err != nil {
		return nil, err
	}

	label := req.Label
	if req.Data != nil {
		label = binding.Interpolate(label, req.Data)
	}
	prep := e.prepare(label, req.Style, consts)

	cfg := BoxConfig{
		Padding:     req.Padding,
		Margin:      req.Margin,
		Width:       req.Wrap.Width,
		Height:      req.Wrap.Height,
		Orientation: req.Orientation,
		Anchor:      req.Anchor,
		HJust:       req.HJust,
		VJust:       req.VJust,
		HAlign:      req.HAlign,
		VAlign:      req.VAlign,
		Color:       req.Style.Color,
		Fill:        req.Fill,
		Stroke:      req.Stroke,
		StrokeWidth: req.StrokeWidth,
		LineGap:     math.Max(consts.LineHeight.Resolve(req.Style.Size)-(prep.strut.Ascent+prep.strut.Descent), 0),
	}

	diags := append([]Diagnostic(nil), prep.diags...)
	lines, lineDiags := BreakLines(prep.units, cfg.WrapWidth(), prep.strut)
	diags = append(diags, lineDiags...)
	box, boxDiags := Layout(lines, cfg)
	diags = append(diags, boxDiags...)

	e.report(label, diags)
	return &Result{
		Commands:    Render(box),
		Extents:     box.Extents(),
		Bounds:      box.Bounds(),
		Box:         box,
		Diagnostics: diags,
	}, nil
}

// RenderAll 并发排版多个标签，结果与错误按输入顺序返回。
func (e *Engine) RenderAll(reqs []Request) ([]*Result, []error) {
	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Render(reqs[i])
		}(i)
	}
	wg.Wait()
	return results, errs
}

// Parse 返回（可能来自缓存的）标记树，便于调试。
func (e *Engine) Parse(label string, style TextStyle) markup.Node {
	return e.prepare(label, style, e.constants).tree
}

func (e *Engine) prepare(label string, style TextStyle, consts Constants) *prepared {
	key := prepKey{label: label, style: style, consts: consts}
	e.mu.RLock()
	p, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return p
	}

	tree, warnings := markup.Parse(label)
	p = &prepared{tree: tree}
	for _, w := range warnings {
		p.diags = append(p.diags, Diagnostic{Kind: DiagnosticMarkup, Message: w.Message, Offset: w.Offset})
	}
	p.runs = Resolve(tree, consts)
	var measureDiags []Diagnostic
	p.units, p.strut, measureDiags = Measure(p.runs, e.metrics, style, consts)
	p.diags = append(p.diags, measureDiags...)

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.cache[key]; ok {
		return existing
	}
	if len(e.cache) >= maxCacheEntries {
		e.cache = map[prepKey]*prepared{}
	}
	e.cache[key] = p
	return p
}

func (e *Engine) report(label string, diags []Diagnostic) {
	for _, d := range diags {
		e.logger.Debug("label diagnostic",
			zap.String("kind", d.Kind.String()),
			zap.Int("offset", d.Offset),
			zap.String("message", d.Message),
			zap.String("label", label),
		)
	}
}
