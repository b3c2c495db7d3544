package metrics

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/marklabel/fonts"
	"github.com/ByLCY/marklabel/layout"
)

// fontKey uniquely identifies a parsed font by family and face.
type fontKey struct {
	family string
	bold   bool
	italic bool
}

// SFNT measures text with TrueType/OpenType fonts through golang.org/x/image.
// Parsed fonts are cached behind a sync.RWMutex; each Measure call uses
// its own sfnt.Buffer, so the provider is safe for concurrent use.
type SFNT struct {
	mu       sync.RWMutex
	fonts    map[fontKey]*sfnt.Font
	fallback string
}

var _ layout.MetricsProvider = (*SFNT)(nil)

// NewSFNT creates a provider backed by the built-in font families. Unknown
// families fall back to fallbackFamily ("go" when empty).
func NewSFNT(fallbackFamily string) *SFNT {
	if fallbackFamily == "" {
		fallbackFamily = "go"
	}
	return &SFNT{
		fonts:    map[fontKey]*sfnt.Font{},
		fallback: fonts.Canonical(fallbackFamily),
	}
}

// Register adds font data for a family/face, overriding built-in fonts.
func (s *SFNT) Register(family string, face fonts.Face, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("解析字体 %s 失败: %w", family, err)
	}
	key := fontKey{family: fonts.Canonical(family), bold: face.Bold, italic: face.Italic}
	s.mu.Lock()
	s.fonts[key] = f
	s.mu.Unlock()
	return nil
}

// Measure implements layout.MetricsProvider. Widths include pair kerning.
// A rune without a glyph is measured with the .notdef advance and reported
// as *layout.MissingGlyphError (the returned metrics are still usable).
func (s *SFNT) Measure(text string, f layout.Font) (layout.Metrics, error) {
	parsed, err := s.font(f)
	if err != nil {
		return layout.Metrics{}, err
	}
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(f.Size * 64)

	fm, err := parsed.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return layout.Metrics{}, fmt.Errorf("读取字体度量失败: %w", err)
	}
	m := layout.Metrics{Ascent: toFloat(fm.Ascent), Descent: toFloat(fm.Descent)}

	var (
		width   fixed.Int26_6
		prev    sfnt.GlyphIndex
		hasPrev bool
		missing *layout.MissingGlyphError
	)
	for _, r := range text {
		idx, err := parsed.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			idx = 0
			adv, _ := parsed.GlyphAdvance(&buf, 0, ppem, font.HintingNone)
			if missing == nil {
				missing = &layout.MissingGlyphError{Rune: r, Fallback: toFloat(adv)}
			}
		}
		if hasPrev {
			if k, err := parsed.Kern(&buf, prev, idx, ppem, font.HintingNone); err == nil {
				width += k
			}
		}
		adv, err := parsed.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err == nil {
			width += adv
		}
		prev, hasPrev = idx, true
	}
	m.Width = toFloat(width)
	if missing != nil {
		return m, missing
	}
	return m, nil
}

// font returns the parsed font for f, loading built-in data on first use.
func (s *SFNT) font(f layout.Font) (*sfnt.Font, error) {
	key := fontKey{family: fonts.Canonical(f.Family), bold: f.Bold, italic: f.Italic}

	s.mu.RLock()
	parsed, ok := s.fonts[key]
	s.mu.RUnlock()
	if ok {
		return parsed, nil
	}

	face := fonts.Face{Bold: f.Bold, Italic: f.Italic}
	data, err := fonts.Load(key.family, face)
	if err != nil {
		key.family = s.fallback
		if data, err = fonts.Load(s.fallback, face); err != nil {
			return nil, err
		}
		s.mu.RLock()
		parsed, ok = s.fonts[key]
		s.mu.RUnlock()
		if ok {
			return parsed, nil
		}
	}
	parsed, err = opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", key.family, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.fonts[key]; ok {
		return existing, nil
	}
	s.fonts[key] = parsed
	return parsed, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
