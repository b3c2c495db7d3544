package renderer

import "github.com/ByLCY/marklabel/layout"

// Renderer 将排版结果输出为最终文件，例如 PDF 或 SVG。
// Render 返回生成的二进制数据以及可能的错误；RenderPages 把多个标签各自放在一页
// （不支持分页的格式会把它们叠放在同一画布上）。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
	RenderPages(results []*layout.Result) ([]byte, error)
}

// Page 描述一个结果在输出中所占的区域（pt）：外接矩形四周再加 margin。
type Page struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

// PageFor 计算容纳 result 外接矩形所需的页面，OffsetX/OffsetY 用于把外接矩形平移到页内。
func PageFor(result *layout.Result, margin float64) Page {
	b := result.Bounds
	return Page{
		Width:   b.Width + 2*margin,
		Height:  b.Height + 2*margin,
		OffsetX: margin - b.X,
		OffsetY: margin - b.Y,
	}
}
