package metrics

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"

	"github.com/ByLCY/marklabel/layout"
)

// Cell measures text in terminal cells: East Asian wide runes take two cells
// and ANSI escape sequences take none. One cell is CellWidth em wide, so a
// host drawing into a character grid can use Size = 1 and CellWidth = 1.
type Cell struct {
	CellWidth float64 // em per cell
	Ascent    float64 // em
	Descent   float64 // em
}

var _ layout.MetricsProvider = Cell{}

// NewCell returns a provider with one-em cells and a one-em line box.
func NewCell() Cell {
	return Cell{CellWidth: 1, Ascent: 1, Descent: 0}
}

func (c Cell) Measure(text string, f layout.Font) (layout.Metrics, error) {
	cells := ansi.PrintableRuneWidth(text)
	m := layout.Metrics{Ascent: c.Ascent * f.Size, Descent: c.Descent * f.Size}

	var missing *layout.MissingGlyphError
	if !strings.ContainsRune(text, ansi.Marker) {
		for _, r := range text {
			if runewidth.RuneWidth(r) == 0 && unicode.IsControl(r) {
				// 控制字符在终端里没有字形，按一个单元格占位。
				cells++
				if missing == nil {
					missing = &layout.MissingGlyphError{Rune: r, Fallback: c.CellWidth * f.Size}
				}
			}
		}
	}
	m.Width = float64(cells) * c.CellWidth * f.Size
	if missing != nil {
		return m, missing
	}
	return m, nil
}
