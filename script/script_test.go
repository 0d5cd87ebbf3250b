package script

import (
	"errors"
	"image/color"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/ByLCY/letterdrift/dsl"
	"github.com/ByLCY/letterdrift/session"
)

// stubExporter 记录 Begin/Capture 次数与绘制的文字，字符宽度固定为 10px。
type stubExporter struct {
	begun    int
	captured int
	texts    []string
	w, h     float64
}

func (e *stubExporter) MeasureText(s string) float64 { return 10 * float64(len([]rune(s))) }
func (e *stubExporter) Size() (float64, float64)      { return e.w, e.h }
func (e *stubExporter) SetFillColor(color.Color)      {}
func (e *stubExporter) SetStrokeColor(color.Color)    {}
func (e *stubExporter) FillText(s string, x, y float64) {
	e.texts = append(e.texts, s)
}
func (e *stubExporter) FillRect(x, y, w, h float64)   {}
func (e *stubExporter) StrokeRect(x, y, w, h float64) {}
func (e *stubExporter) Begin(w, h float64) {
	e.begun++
	e.w, e.h = w, h
	e.texts = nil
}
func (e *stubExporter) Capture() error { e.captured++; return nil }
func (e *stubExporter) Frames() int    { return e.captured }

func compile(t *testing.T, src string, data any) *Program {
	t.Helper()
	scene, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog, err := Compile(scene, data)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return prog
}

func TestCompileSettings(t *testing.T) {
	prog := compile(t, `scene "cfg" {
  viewport 640 480
  margin top 1in
  margin left 30px
  margin right 12pt
  font "builtin:go-mono" 15pt
  line-height 1.5x
  substeps 3
  blink 10
  seed 7
  append
  text "Hi ${name}"
}`, map[string]any{"name": "Dim"})

	cfg := prog.Config
	if prog.Name != "cfg" || cfg.Width != 640 || cfg.Height != 480 {
		t.Fatalf("unexpected program %+v", prog)
	}
	if cfg.Top != 96 || cfg.Left != 30 || cfg.Right != 16 {
		t.Fatalf("margins=%g/%g/%g", cfg.Top, cfg.Left, cfg.Right)
	}
	if prog.Font.Src != "builtin:go-mono" || prog.Font.Size.Px() != 20 {
		t.Fatalf("font=%+v", prog.Font)
	}
	if math.Abs(cfg.LineHeight-30) > 1e-9 {
		t.Fatalf("line height=%g want 30", cfg.LineHeight)
	}
	if cfg.SubSteps != 3 || cfg.BlinkPeriod != 10 || cfg.Seed != 7 || !cfg.AppendWithoutCursor {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Text != "Hi Dim" {
		t.Fatalf("text=%q", cfg.Text)
	}
}

func TestCompileDefaults(t *testing.T) {
	prog := compile(t, `scene "bare" {}`, nil)
	def := session.DefaultConfig()
	if prog.Config.Text != def.Text || prog.Config.LineHeight != 24 || prog.Config.Left != 50 {
		t.Fatalf("defaults not applied: %+v", prog.Config)
	}
	if len(prog.Actions) != 0 {
		t.Fatalf("expected no actions")
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		src  string
		want error
	}{
		{`scene "x" { gravity 9.8 }`, ErrUnknownSetting},
		{`scene "x" { timeline { jump 1 } }`, ErrUnknownAction},
	}
	for _, tc := range cases {
		scene, err := dsl.ParseString(tc.src)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.src, err)
		}
		if _, err := Compile(scene, nil); !errors.Is(err, tc.want) {
			t.Fatalf("Compile(%q) err=%v want %v", tc.src, err, tc.want)
		}
	}

	for _, src := range []string{
		`scene "x" { margin middle 4 }`,
		`scene "x" { viewport 10 }`,
		`scene "x" { substeps 0 }`,
		`scene "x" { line-height 0 }`,
		`scene "x" { timeline { cursor -2 } }`,
		`scene "x" { timeline { up now } }`,
		`scene "x" { timeline }`,
		`scene "x" { viewport "800" 600 }`,
		`scene "x" { text hello }`,
		`scene "x" { font 12 }`,
	} {
		scene, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if _, err := Compile(scene, nil); err == nil {
			t.Fatalf("Compile(%q) should fail", src)
		}
	}
}

const editScene = `scene "edit" {
  viewport 400 300
  text "abc def"
  append
  timeline {
    settle
    down 95 40
    up
    type "XY"
    key Backspace
    cursor end
    type "!"
    settle
    capture
    resize 500 200
    advance 2
    capture
  }
}`

func TestRunEditsAndCaptures(t *testing.T) {
	prog := compile(t, editScene, nil)
	exp := &stubExporter{}
	sess := session.New(prog.Config, exp)
	r := NewRunner(sess, exp)

	if err := r.Run(prog.Actions); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := sess.Doc.Text(); got != "abc Xdef!" {
		t.Fatalf("text=%q", got)
	}
	if exp.begun != 2 || exp.captured != 2 || len(r.Snapshots) != 2 {
		t.Fatalf("begun=%d captured=%d snapshots=%d", exp.begun, exp.captured, len(r.Snapshots))
	}
	if lines := r.Snapshots[0].Lines(2); !slices.Equal(lines, []string{"abc Xdef!"}) {
		t.Fatalf("lines=%q", lines)
	}
	if strings.Join(exp.texts, "") != "abc Xdef!" {
		t.Fatalf("drawn texts=%q", exp.texts)
	}
	if exp.w != 500 || exp.h != 200 {
		t.Fatalf("second capture should use the resized viewport, got %gx%g", exp.w, exp.h)
	}
	if r.Snapshots[1].Frame-r.Snapshots[0].Frame != 2 {
		t.Fatalf("advance 2 should step two frames: %d → %d", r.Snapshots[0].Frame, r.Snapshots[1].Frame)
	}
	if r.Snapshots[0].Cursor != -1 {
		t.Fatalf("cursor should be at the end, got %d", r.Snapshots[0].Cursor)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() []float64 {
		prog := compile(t, `scene "d" { seed 3; text "drift"; timeline { advance 4; capture } }`, nil)
		sess := session.New(prog.Config, &stubExporter{})
		r := NewRunner(sess, nil)
		if err := r.Run(prog.Actions); err != nil {
			t.Fatalf("run: %v", err)
		}
		var xs []float64
		for _, g := range r.Snapshots[0].Glyphs {
			xs = append(xs, g.X, g.Y)
		}
		return xs
	}
	if a, b := run(), run(); !slices.Equal(a, b) {
		t.Fatalf("same seed produced different frames")
	}
}

func TestSettleActionStepsSessionFrames(t *testing.T) {
	prog := compile(t, `scene "s" { text "abc"; timeline { settle 1; capture; settle; capture } }`, nil)
	sess := session.New(prog.Config, &stubExporter{})
	r := NewRunner(sess, nil)
	if err := r.Run(prog.Actions); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.Snapshots[0].Frame != 1 {
		t.Fatalf("settle 1 should stop after one frame, got frame %d", r.Snapshots[0].Frame)
	}
	if r.Snapshots[1].Frame <= 1 || r.Snapshots[1].Frame != sess.FrameCount() {
		t.Fatalf("settle should advance the session frame counter: snapshot=%d session=%d", r.Snapshots[1].Frame, sess.FrameCount())
	}
	if res := sess.Engine.Residual(sess.Doc, sess.State); res > SettleEpsilon {
		t.Fatalf("residual=%g after settle", res)
	}
}
