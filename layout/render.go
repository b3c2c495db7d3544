package layout

// Render 遍历排好的盒子，输出最终坐标下的绘制指令：
// 先是 padding 区域的背景/边框矩形（配置了填充或描边时），再按阅读顺序输出每个 BreakUnit 的文字。
//
// halign/valign 只决定文字在内容区内的对齐：
// 行的 x = 内容区左边 + halign × (内容区宽 - 行宽)；
// 所有行整体从内容区顶部向下偏移 valign × (内容区高 - 文本总高)。
func Render(box Box) []DrawCommand {
	var cmds []DrawCommand
	if box.Fill != nil || box.Stroke != nil {
		r := box.deviceRect(box.Margin.Left, box.Margin.Top, box.ContentWidth, box.ContentHeight)
		rect := &RectCommand{X: r.X, Y: r.Y, W: r.Width, H: r.Height, StrokeWidth: box.StrokeWidth}
		if box.Fill != nil {
			fill := *box.Fill
			rect.Fill = &fill
		}
		if box.Stroke != nil {
			stroke := *box.Stroke
			rect.Stroke = &stroke
		}
		cmds = append(cmds, DrawCommand{Kind: CommandRect, Rect: rect})
	}

	innerLeft := box.Margin.Left + box.Padding.Left
	innerTop := box.Margin.Top + box.Padding.Top
	innerWidth := box.ContentWidth - box.Padding.horizontal()
	innerHeight := box.ContentHeight - box.Padding.vertical()

	cursorY := innerTop + box.VAlign*(innerHeight-box.TextHeight)
	for _, ln := range box.Lines {
		cursorY += ln.GapBefore
		baseline := cursorY + ln.Ascent
		x := innerLeft + box.HAlign*(innerWidth-ln.Width)
		for _, u := range ln.Units {
			bx, by := box.toDevice(x, baseline-u.Offset)
			cmds = append(cmds, DrawCommand{Kind: CommandGlyphRun, Glyph: &GlyphRun{
				BaselineX:   bx,
				BaselineY:   by,
				Text:        u.Text,
				Font:        u.Font,
				Color:       box.Color,
				Shift:       u.Run.Shift,
				Orientation: box.Orientation,
			}})
			x += u.Width
		}
		cursorY += ln.Height()
	}
	return cmds
}
