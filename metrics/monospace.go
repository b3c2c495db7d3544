package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/marklabel/layout"
)

// Monospace is a deterministic provider: every rune advances by Advance em.
// Runes listed in Missing are reported as missing glyphs (measured at the
// same advance). It is meant for tests and for hosts without font data.
type Monospace struct {
	Advance float64 // em
	Ascent  float64 // em
	Descent float64 // em
	Missing string
}

var _ layout.MetricsProvider = Monospace{}

// NewMonospace returns a provider with 0.5em advances and 0.8/0.2em line metrics.
func NewMonospace() Monospace {
	return Monospace{Advance: 0.5, Ascent: 0.8, Descent: 0.2}
}

func (m Monospace) Measure(text string, f layout.Font) (layout.Metrics, error) {
	out := layout.Metrics{
		Width:   float64(utf8.RuneCountInString(text)) * m.Advance * f.Size,
		Ascent:  m.Ascent * f.Size,
		Descent: m.Descent * f.Size,
	}
	if m.Missing != "" {
		if i := strings.IndexAny(text, m.Missing); i >= 0 {
			r, _ := utf8.DecodeRuneInString(text[i:])
			return out, &layout.MissingGlyphError{Rune: r, Fallback: m.Advance * f.Size}
		}
	}
	return out, nil
}
