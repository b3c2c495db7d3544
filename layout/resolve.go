package layout

import "github.com/ByLCY/marklabel/markup"

// styleContext 是深度优先遍历时累积的样式上下文。
type styleContext struct {
	bold   bool
	italic bool
	shift  BaselineShift
	scale  float64
}

// Resolve 将标记树拍平为有序的 StyledRun 序列。
// 粗体/斜体取或，字号倍数相乘，基线偏移以最内层为准；每个 Text 叶子产出一个 run，
// LineBreak 产出 Break 哨兵。
func Resolve(tree markup.Node, consts Constants) []StyledRun {
	var runs []StyledRun
	var walk func(n markup.Node, ctx styleContext)
	walk = func(n markup.Node, ctx styleContext) {
		switch n.Kind {
		case markup.KindText:
			runs = append(runs, StyledRun{
				Text:   n.Text,
				Bold:   ctx.bold,
				Italic: ctx.italic,
				Shift:  ctx.shift,
				Scale:  ctx.scale,
			})
			return
		case markup.KindLineBreak:
			runs = append(runs, StyledRun{Break: true, Scale: ctx.scale})
			return
		case markup.KindBold:
			ctx.bold = true
		case markup.KindItalic:
			ctx.italic = true
		case markup.KindSuperscript:
			ctx.shift = ShiftSuper
			ctx.scale *= consts.ScriptScale
		case markup.KindSubscript:
			ctx.shift = ShiftSub
			ctx.scale *= consts.ScriptScale
		}
		for _, child := range n.Children {
			walk(child, ctx)
		}
	}
	walk(tree, styleContext{scale: 1})
	return runs
}
