package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/marklabel/dsl"
	"github.com/ByLCY/marklabel/layout"
)

const sampleSheet = `
// axis labels for the iris figure
sheet iris {
  defaults {
    font: latin-modern; size: 10pt
    width: 0.5npc
    padding: 2pt
    color: #333
  }

  label x {
    text: "*Sepal* length (cm)"
    hjust: 0.5
    x: 50%
  }

  /* rotated */
  label y {
    text: "*r*<sup>2</sup> = 0.96\nper species"
    orientation: 90
    fill: #F0F0F0
    stroke: #000; stroke-width: 0.5pt
  }
}
`

func TestParseSheet(t *testing.T) {
	sheet, err := dsl.ParseString(sampleSheet)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sheet.Name != "iris" {
		t.Fatalf("expected sheet name iris, got %s", sheet.Name)
	}
	labels := sheet.Labels()
	if len(labels) != 2 || labels[0].Name != "x" || labels[1].Name != "y" {
		t.Fatalf("unexpected labels: %+v", labels)
	}
	if got := len(sheet.Defaults()); got != 5 {
		t.Fatalf("expected 5 default assignments, got %d", got)
	}
	if text := labels[1].Block.Assignments[0].Value.Raw(); !strings.Contains(text, "\n") {
		t.Fatalf("string escapes should be decoded: %q", text)
	}
}

func TestSheetRequests(t *testing.T) {
	sheet, err := dsl.ParseString(sampleSheet)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	base := layout.Request{Style: layout.DefaultTextStyle(), VJust: 1}
	reqs, err := sheet.Requests(base, dsl.Container{Width: 200, Height: 100})
	if err != nil {
		t.Fatalf("requests failed: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}

	x := reqs[0].Request
	if x.Label != "*Sepal* length (cm)" || x.Style.Family != "latin-modern" || x.Style.Size != 10 {
		t.Fatalf("unexpected x request: %+v", x)
	}
	if x.Wrap.Width == nil || *x.Wrap.Width != 100 || x.HJust != 0.5 || x.Anchor.X != 100 {
		t.Fatalf("relative lengths should resolve against the container: %+v", x)
	}
	if x.Style.Color != (layout.Color{R: 0x33, G: 0x33, B: 0x33}) || x.VJust != 1 {
		t.Fatalf("defaults and base should carry over: %+v", x)
	}

	y := reqs[1].Request
	if y.Orientation != layout.Left || y.Fill == nil || y.Fill.R != 0xf0 || y.StrokeWidth != 0.5 {
		t.Fatalf("unexpected y request: %+v", y)
	}
	if x.Fill != nil {
		t.Fatalf("label properties must not leak into other labels")
	}
}

func TestSheetErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":     `sheet s { label a { text: "x"; bogus: 1 } }`,
		"text in default": `sheet s { defaults { text: "x" } }`,
		"duplicate":       `sheet s { label a { text: "x" } label a { text: "y" } }`,
		"relative":        `sheet s { label a { width: 50% } }`,
		"bad color":       `sheet s { label a { fill: red } }`,
		"text not string": `sheet s { label a { text: 12 } }`,
	}
	for name, src := range cases {
		sheet, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", name, err)
		}
		if _, err := sheet.Requests(layout.Request{}, dsl.Container{}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := dsl.ParseString(`sheet { }`); err == nil {
		t.Fatalf("expected syntax error for missing sheet name")
	}
}

func TestParseColor(t *testing.T) {
	c, err := dsl.ParseColor("#1e90ff")
	if err != nil || c != (layout.Color{R: 0x1e, G: 0x90, B: 0xff}) {
		t.Fatalf("ParseColor = %+v, %v", c, err)
	}
	if c, _ := dsl.ParseColor("abc"); c != (layout.Color{R: 0xaa, G: 0xbb, B: 0xcc}) {
		t.Fatalf("short form mismatch: %+v", c)
	}
	if _, err := dsl.ParseColor("#12"); err == nil {
		t.Fatalf("expected error")
	}
}
