package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func defaultOptions() options {
	return options{
		family:      "go",
		size:        "11pt",
		lineHeight:  1.2,
		padding:     "0",
		margin:      "0",
		pageMargin:  "4pt",
		vjust:       1,
		orientation: "upright",
		color:       "#1e1e1e",
		strokeWidth: "0.5pt",
	}
}

func TestRunTextPreview(t *testing.T) {
	opts := defaultOptions()
	opts.labels = []string{"*r*<sup>2</sup> = 0.96", "one two three four"}
	opts.output = "-"
	opts.format = "text"
	opts.width = "10"
	opts.halign = 1
	var out bytes.Buffer
	if err := run(opts, &out, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "r2 = 0.96\n\n   one two\nthree four\n"
	if out.String() != want {
		t.Fatalf("unexpected preview:\n%q\nwant\n%q", out.String(), want)
	}
}

func TestRunWritesSVGAndDebug(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions()
	opts.labels = []string{"Sepal **length** (${unit})"}
	opts.data = `{"unit":"cm"}`
	opts.output = filepath.Join(dir, "out", "label.svg")
	opts.debug = filepath.Join(dir, "debug", "label.json")
	opts.metrics = "mono"
	opts.width = "0.5npc"
	opts.containerW = "80pt"
	opts.fill = "#fff"
	opts.orientation = "90"
	if err := run(opts, nil, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	svg, err := os.ReadFile(opts.output)
	if err != nil || !strings.Contains(string(svg), "cm)") {
		t.Fatalf("svg output missing interpolated text: %v", err)
	}
	debug, err := os.ReadFile(opts.debug)
	if err != nil || !strings.Contains(string(debug), `"orientation": "left"`) {
		t.Fatalf("debug json missing orientation: %v", err)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	cases := map[string]func(*options){
		"format":   func(o *options) { o.format = "bmp" },
		"metrics":  func(o *options) { o.metrics = "ruler" },
		"relative": func(o *options) { o.width = "50%" },
		"color":    func(o *options) { o.fill = "#12" },
		"hjust":    func(o *options) { o.hjust = 3 },
		"data":     func(o *options) { o.data = "{" },
	}
	for name, mutate := range cases {
		opts := defaultOptions()
		opts.labels = []string{"x"}
		opts.output = "-"
		opts.format = "json"
		opts.metrics = "mono"
		mutate(&opts)
		if err := run(opts, &bytes.Buffer{}, zap.NewNop()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRunSheet(t *testing.T) {
	dir := t.TempDir()
	sheet := filepath.Join(dir, "axes.label")
	src := `sheet axes {
  defaults { width: 10 }
  label x { text: "one two three four"; halign: 1 }
  label y { text: "*r*<sup>2</sup> = 0.96" }
}
`
	if err := os.WriteFile(sheet, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := defaultOptions()
	opts.input = sheet
	opts.output = "-"
	opts.format = "text"
	var out bytes.Buffer
	if err := run(opts, &out, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "   one two\nthree four\n\nr2 = 0.96\n"
	if out.String() != want {
		t.Fatalf("unexpected preview:\n%q\nwant\n%q", out.String(), want)
	}

	opts.labels = []string{"x"}
	if err := run(opts, &out, zap.NewNop()); err == nil {
		t.Fatalf("expected error when mixing --in and --label")
	}
}
