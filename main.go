package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ByLCY/marklabel/dsl"
	"github.com/ByLCY/marklabel/layout"
	"github.com/ByLCY/marklabel/metrics"
	"github.com/ByLCY/marklabel/renderer"
	canvasrenderer "github.com/ByLCY/marklabel/renderer/canvas"
	svgrenderer "github.com/ByLCY/marklabel/renderer/svg"
)

// options 汇总命令行参数；长度均为带单位的字符串，在 run 中统一解析为 pt。
type options struct {
	labels      []string
	input       string
	output      string
	format      string
	debug       string
	data        string
	metrics     string
	family      string
	size        string
	lineHeight  float64
	width       string
	height      string
	containerW  string
	containerH  string
	padding     string
	margin      string
	pageMargin  string
	hjust       float64
	vjust       float64
	halign      float64
	valign      float64
	orientation string
	color       string
	fill        string
	stroke      string
	strokeWidth string
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("marklabel", pflag.ExitOnError)
	flags.StringArrayVarP(&opts.labels, "label", "l", nil, "标签文本（可重复；为空时从标准输入读取）")
	flags.StringVarP(&opts.input, "in", "i", "", "标签 sheet 文件路径（与 --label 互斥）")
	flags.StringVarP(&opts.output, "out", "o", "output/label.pdf", "输出路径，\"-\" 表示标准输出")
	flags.StringVarP(&opts.format, "format", "f", "", "输出格式 pdf|svg|json|text（默认按扩展名推断）")
	flags.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径")
	flags.StringVar(&opts.data, "data", "", "绑定到 ${path} 占位符的 JSON 数据")
	flags.StringVar(&opts.metrics, "metrics", "", "度量后端 canvas|sfnt|mono|cell（默认随格式而定）")
	flags.StringVar(&opts.family, "font", "go", "字族：go、go-mono、latin-modern 或其别名")
	flags.StringVar(&opts.size, "size", "11pt", "正文字号（text 格式固定为 1，宽度以字符格计）")
	flags.Float64Var(&opts.lineHeight, "line-height", 1.2, "行高（字号倍数）")
	flags.StringVar(&opts.width, "width", "", "目标宽度，如 40mm、0.3npc；为空时单行")
	flags.StringVar(&opts.height, "height", "", "目标高度")
	flags.StringVar(&opts.containerW, "container-width", "", "解析 npc/% 宽度所用的容器宽度")
	flags.StringVar(&opts.containerH, "container-height", "", "解析 npc/% 高度所用的容器高度")
	flags.StringVar(&opts.padding, "padding", "0", "内边距")
	flags.StringVar(&opts.margin, "margin", "0", "外边距")
	flags.StringVar(&opts.pageMargin, "page-margin", "4pt", "输出页面四周的留白")
	flags.Float64Var(&opts.hjust, "hjust", 0, "锚点水平对齐 [0,1]")
	flags.Float64Var(&opts.vjust, "vjust", 1, "锚点垂直对齐 [0,1]，1 表示锚点在顶部")
	flags.Float64Var(&opts.halign, "halign", 0, "行在内容区内的水平对齐 [0,1]")
	flags.Float64Var(&opts.valign, "valign", 0, "文本在内容区内的垂直对齐 [0,1]")
	flags.StringVar(&opts.orientation, "orientation", "upright", "upright|left|inverted|right 或 0/90/180/270")
	flags.StringVar(&opts.color, "color", "#1e1e1e", "文字颜色")
	flags.StringVar(&opts.fill, "fill", "", "背景填充色")
	flags.StringVar(&opts.stroke, "stroke", "", "边框颜色")
	flags.StringVar(&opts.strokeWidth, "stroke-width", "0.5pt", "边框宽度")
	verbose := flags.BoolP("verbose", "v", false, "输出诊断日志")
	_ = flags.Parse(os.Args[1:])

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() { _ = logger.Sync() }()

	if len(opts.labels) == 0 && opts.input == "" {
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("读取标准输入失败", zap.Error(err))
		}
		opts.labels = []string{strings.TrimRight(string(input), "\r\n")}
	}

	if err := run(opts, os.Stdout, logger); err != nil {
		logger.Fatal("生成标签失败", zap.Error(err))
	}
	if opts.output != "-" {
		fmt.Printf("已生成：%s\n", opts.output)
	}
}

// run 串联参数解析、排版与渲染。
func run(opts options, stdout io.Writer, logger *zap.Logger) error {
	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	}
	switch format {
	case "pdf", "svg", "json", "text", "txt":
	default:
		return fmt.Errorf("未知的输出格式 %q", format)
	}

	base, container, err := buildRequest(opts)
	if err != nil {
		return err
	}

	pageMargin, err := parsePt(opts.pageMargin, 0)
	if err != nil {
		return fmt.Errorf("page-margin: %w", err)
	}
	var (
		provider layout.MetricsProvider
		dev      renderer.Renderer
	)
	canvasDev := func() *canvasrenderer.Renderer {
		r, _ := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Margin: pageMargin, Fallback: opts.family})
		return r
	}
	switch opts.metrics {
	case "", "canvas":
		if format == "text" || format == "txt" {
			provider = metrics.NewCell()
			break
		}
		c := canvasDev()
		provider, dev = c, c
	case "sfnt":
		provider = metrics.NewCache(metrics.NewSFNT(opts.family))
	case "mono":
		provider = metrics.NewMonospace()
	case "cell":
		provider = metrics.NewCell()
	default:
		return fmt.Errorf("未知的度量后端 %q", opts.metrics)
	}
	if format == "svg" {
		dev = svgrenderer.NewRenderer(pageMargin)
	} else if format == "pdf" && dev == nil {
		dev = canvasDev()
	}

	engine := layout.NewEngine(provider, layout.WithLogger(logger),
		layout.WithConstants(withLineHeight(layout.DefaultConstants(), opts.lineHeight)))
	reqs, err := collectRequests(opts, base, container)
	if err != nil {
		return err
	}
	if format == "text" || format == "txt" {
		for i := range reqs {
			reqs[i].Style.Size = 1
		}
	}
	results, errs := engine.RenderAll(reqs)
	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("排版第 %d 个标签失败: %w", i+1, err)
		}
	}
	for _, res := range results {
		for _, d := range res.Diagnostics {
			logger.Info("诊断", zap.String("detail", d.String()))
		}
	}

	if opts.debug != "" {
		if err := writeDebug(results, opts.debug); err != nil {
			return err
		}
	}

	var out []byte
	switch format {
	case "pdf", "svg":
		if out, err = dev.RenderPages(results); err != nil {
			return fmt.Errorf("渲染失败: %w", err)
		}
	case "json":
		var b strings.Builder
		for _, res := range results {
			if err := layout.WriteDebug(&b, res); err != nil {
				return err
			}
		}
		out = []byte(b.String())
	default:
		var b strings.Builder
		for i, res := range results {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(textPreview(res))
		}
		out = []byte(b.String())
	}

	if opts.output == "-" {
		_, err := stdout.Write(out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// buildRequest 把命令行参数转成除 Label 外的请求模板。
func buildRequest(opts options) (layout.Request, dsl.Container, error) {
	req := layout.Request{
		HJust:  opts.hjust,
		VJust:  opts.vjust,
		HAlign: opts.halign,
		VAlign: opts.valign,
	}
	var container dsl.Container
	style := layout.DefaultTextStyle()
	style.Family = opts.family
	size, err := parsePt(opts.size, 0)
	if err != nil {
		return req, container, fmt.Errorf("size: %w", err)
	}
	style.Size = size
	if style.Color, err = dsl.ParseColor(opts.color); err != nil {
		return req, container, err
	}
	req.Style = style

	container.Width, err = parsePt(opts.containerW, 0)
	if err != nil {
		return req, container, fmt.Errorf("container-width: %w", err)
	}
	container.Height, err = parsePt(opts.containerH, 0)
	if err != nil {
		return req, container, fmt.Errorf("container-height: %w", err)
	}
	if req.Wrap.Width, err = optionalPt(opts.width, container.Width); err != nil {
		return req, container, fmt.Errorf("width: %w", err)
	}
	if req.Wrap.Height, err = optionalPt(opts.height, container.Height); err != nil {
		return req, container, fmt.Errorf("height: %w", err)
	}

	padding, err := parsePt(opts.padding, 0)
	if err != nil {
		return req, container, fmt.Errorf("padding: %w", err)
	}
	margin, err := parsePt(opts.margin, 0)
	if err != nil {
		return req, container, fmt.Errorf("margin: %w", err)
	}
	req.Padding, req.Margin = layout.Uniform(padding), layout.Uniform(margin)

	if req.Orientation, err = layout.ParseOrientation(opts.orientation); err != nil {
		return req, container, err
	}
	if opts.fill != "" {
		c, err := dsl.ParseColor(opts.fill)
		if err != nil {
			return req, container, err
		}
		req.Fill = &c
	}
	if opts.stroke != "" {
		c, err := dsl.ParseColor(opts.stroke)
		if err != nil {
			return req, container, err
		}
		req.Stroke = &c
	}
	if req.StrokeWidth, err = parsePt(opts.strokeWidth, 0); err != nil {
		return req, container, fmt.Errorf("stroke-width: %w", err)
	}
	if opts.data != "" {
		var data any
		if err := json.Unmarshal([]byte(opts.data), &data); err != nil {
			return req, container, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		req.Data = data
	}
	return req, container, nil
}

// collectRequests 返回待排版的请求：给定 sheet 时按 sheet 展开，否则每个 --label 一个。
func collectRequests(opts options, base layout.Request, container dsl.Container) ([]layout.Request, error) {
	if opts.input == "" {
		reqs := make([]layout.Request, len(opts.labels))
		for i, label := range opts.labels {
			reqs[i] = base
			reqs[i].Label = label
		}
		return reqs, nil
	}
	if len(opts.labels) > 0 {
		return nil, fmt.Errorf("--in 与 --label 不能同时使用")
	}
	file, err := os.Open(opts.input)
	if err != nil {
		return nil, fmt.Errorf("无法打开 sheet 文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	sheet, err := dsl.Parse(opts.input, file)
	if err != nil {
		return nil, fmt.Errorf("解析 sheet 失败: %w", err)
	}
	named, err := sheet.Requests(base, container)
	if err != nil {
		return nil, err
	}
	if len(named) == 0 {
		return nil, fmt.Errorf("sheet %s 中没有标签", sheet.Name)
	}
	reqs := make([]layout.Request, len(named))
	for i, n := range named {
		reqs[i] = n.Request
	}
	return reqs, nil
}

func withLineHeight(c layout.Constants, factor float64) layout.Constants {
	c.LineHeight = layout.LineHeightSpec{Kind: layout.LineHeightFactor, Factor: factor}
	return c
}

// parsePt 解析长度并换算为 pt；空字符串视为 0。
func parsePt(s string, container float64) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	l, err := layout.ParseLength(s)
	if err != nil {
		return 0, err
	}
	if l.IsRelative() && container <= 0 {
		return 0, fmt.Errorf("相对长度 %s 需要容器尺寸", l)
	}
	return l.Resolve(container), nil
}

func optionalPt(s string, container float64) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := parsePt(s, container)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// textPreview 按行输出文字，左侧补空格体现 halign（宽度以度量单位计，cell 后端即为字符格）。
func textPreview(res *layout.Result) string {
	var b strings.Builder
	box := res.Box
	for _, ln := range box.Lines {
		pad := int(box.HAlign*(box.TextWidth-ln.Width) + 0.5)
		b.WriteString(strings.Repeat(" ", pad))
		for _, u := range ln.Units {
			b.WriteString(u.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeDebug(results []*layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if len(results) == 1 {
		if err := layout.WriteDebugJSON(results[0], debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
		return nil
	}
	f, err := os.Create(debugPath)
	if err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	defer f.Close()
	for _, res := range results {
		if err := layout.WriteDebug(f, res); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	return nil
}
