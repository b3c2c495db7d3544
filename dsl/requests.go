package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/marklabel/layout"
)

// Container 是解析 npc/% 长度时参照的容器尺寸（pt）。
type Container struct {
	Width  float64
	Height float64
}

// NamedRequest 是 sheet 中一个标签展开后的排版请求。
type NamedRequest struct {
	Name    string
	Request layout.Request
}

// Requests 把 sheet 展开为排版请求：先套用 base，再依次应用 defaults 与标签自身的属性。
// 未知属性或非法取值返回带位置信息的错误。
func (s *Sheet) Requests(base layout.Request, container Container) ([]NamedRequest, error) {
	defaults := base
	for _, a := range s.Defaults() {
		if a.Key == "text" {
			return nil, fmt.Errorf("%s: defaults 中不允许设置 text", a.Pos)
		}
		if err := apply(&defaults, a, container); err != nil {
			return nil, err
		}
	}

	var out []NamedRequest
	seen := map[string]bool{}
	for _, decl := range s.Labels() {
		if seen[decl.Name] {
			return nil, fmt.Errorf("%s: 标签 %s 重复定义", decl.Pos, decl.Name)
		}
		seen[decl.Name] = true
		req := defaults
		for _, a := range decl.Block.Assignments {
			if err := apply(&req, a, container); err != nil {
				return nil, err
			}
		}
		out = append(out, NamedRequest{Name: decl.Name, Request: req})
	}
	return out, nil
}

func apply(req *layout.Request, a *Assignment, c Container) error {
	raw := a.Value.Raw()
	fail := func(err error) error {
		return fmt.Errorf("%s: %s: %w", a.Pos, a.Key, err)
	}
	switch a.Key {
	case "text":
		if a.Value.String == nil {
			return fail(fmt.Errorf("需要字符串"))
		}
		req.Label = raw
	case "font":
		req.Style.Family = raw
	case "size":
		v, err := length(raw, 0)
		if err != nil {
			return fail(err)
		}
		req.Style.Size = v
	case "color":
		col, err := ParseColor(raw)
		if err != nil {
			return fail(err)
		}
		req.Style.Color = col
	case "width", "height":
		ref := c.Width
		if a.Key == "height" {
			ref = c.Height
		}
		v, err := length(raw, ref)
		if err != nil {
			return fail(err)
		}
		if a.Key == "width" {
			req.Wrap.Width = &v
		} else {
			req.Wrap.Height = &v
		}
	case "padding", "margin":
		v, err := length(raw, 0)
		if err != nil {
			return fail(err)
		}
		if a.Key == "padding" {
			req.Padding = layout.Uniform(v)
		} else {
			req.Margin = layout.Uniform(v)
		}
	case "hjust", "vjust", "halign", "valign":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fail(err)
		}
		switch a.Key {
		case "hjust":
			req.HJust = v
		case "vjust":
			req.VJust = v
		case "halign":
			req.HAlign = v
		default:
			req.VAlign = v
		}
	case "orientation":
		o, err := layout.ParseOrientation(raw)
		if err != nil {
			return fail(err)
		}
		req.Orientation = o
	case "x", "y":
		ref := c.Width
		if a.Key == "y" {
			ref = c.Height
		}
		v, err := length(raw, ref)
		if err != nil {
			return fail(err)
		}
		if a.Key == "x" {
			req.Anchor.X = v
		} else {
			req.Anchor.Y = v
		}
	case "fill", "stroke":
		col, err := ParseColor(raw)
		if err != nil {
			return fail(err)
		}
		if a.Key == "fill" {
			req.Fill = &col
		} else {
			req.Stroke = &col
		}
	case "stroke-width":
		v, err := length(raw, 0)
		if err != nil {
			return fail(err)
		}
		req.StrokeWidth = v
	default:
		return fmt.Errorf("%s: 未知属性 %q", a.Pos, a.Key)
	}
	return nil
}

// length 解析长度并换算为 pt；相对单位需要 ref > 0。
func length(raw string, ref float64) (float64, error) {
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, err
	}
	if l.IsRelative() && ref <= 0 {
		return 0, fmt.Errorf("相对长度 %s 需要容器尺寸", l)
	}
	return l.Resolve(ref), nil
}

// ParseColor 接受 #rgb 与 #rrggbb。
func ParseColor(s string) (layout.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return layout.Color{}, fmt.Errorf("无法解析颜色 %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("无法解析颜色 %q: %w", s, err)
	}
	return layout.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
