package session

import (
	"image/color"
	"strings"
	"testing"
)

// fakeSurface 记录绘制调用，字符宽度固定为 10px。
type fakeSurface struct {
	w, h    float64
	texts   []string
	rects   [][4]float64
	strokes [][4]float64
}

func (f *fakeSurface) MeasureText(s string) float64 { return 10 * float64(len([]rune(s))) }
func (f *fakeSurface) Size() (float64, float64)      { return f.w, f.h }
func (f *fakeSurface) SetFillColor(color.Color)      {}
func (f *fakeSurface) SetStrokeColor(color.Color)    {}
func (f *fakeSurface) FillText(s string, x, y float64) {
	f.texts = append(f.texts, s)
}
func (f *fakeSurface) FillRect(x, y, w, h float64) {
	f.rects = append(f.rects, [4]float64{x, y, w, h})
}
func (f *fakeSurface) StrokeRect(x, y, w, h float64) {
	f.strokes = append(f.strokes, [4]float64{x, y, w, h})
}

func newTestSession(t *testing.T, text string) (*Session, *fakeSurface) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 400, 300
	cfg.Text = text
	surf := &fakeSurface{w: 400, h: 300}
	return New(cfg, surf), surf
}

// frame 按窗口宿主的顺序执行一帧：同步视口、推进、绘制。
func frame(s *Session, surf *fakeSurface) {
	s.Resize(surf.Size())
	s.Step()
	s.Draw(surf)
}

func TestNewScattersGlyphsInsideViewport(t *testing.T) {
	s, _ := newTestSession(t, "scatter me")
	if got := s.Doc.Text(); got != "scatter me" {
		t.Fatalf("text=%q", got)
	}
	for g := range s.Doc.All() {
		if g.Pos.X < 0 || g.Pos.X >= 400 || g.Pos.Y < 0 || g.Pos.Y >= 300 {
			t.Fatalf("glyph %q starts outside the viewport: %+v", g.Value, g.Pos)
		}
	}

	again, _ := newTestSession(t, "scatter me")
	if again.Doc.Head().Pos != s.Doc.Head().Pos {
		t.Fatalf("same seed should reproduce the entrance positions")
	}
}

func TestDrawRendersGuideGlyphsAndCaret(t *testing.T) {
	s, surf := newTestSession(t, "abc")
	s.Controller.SetCursor(s.Doc.At(1))

	s.Draw(surf)
	if len(surf.strokes) != 1 {
		t.Fatalf("expected the margin guide, got %v", surf.strokes)
	}
	want := [4]float64{50, 26, 250, 300}
	if surf.strokes[0] != want {
		t.Fatalf("guide=%v want %v", surf.strokes[0], want)
	}
	if strings.Join(surf.texts, "") != "abc" {
		t.Fatalf("texts=%v", surf.texts)
	}
	if len(surf.rects) != 1 {
		t.Fatalf("caret should be drawn once while visible, got %d", len(surf.rects))
	}
}

func TestCaretBlinks(t *testing.T) {
	s, surf := newTestSession(t, "ab")
	s.Controller.SetCursor(s.Doc.Head())

	visible := 0
	for i := 0; i < 120; i++ {
		surf.rects = nil
		frame(s, surf)
		if len(surf.rects) > 0 {
			visible++
		}
	}
	if visible != 60 {
		t.Fatalf("caret visible in %d of 120 frames, want 60", visible)
	}
	if s.FrameCount() != 120 {
		t.Fatalf("frame count=%d", s.FrameCount())
	}
}

func TestResizeKeepsMargins(t *testing.T) {
	s, _ := newTestSession(t, "ab")
	s.Resize(640, 480)
	if s.State.Width != 640 || s.State.Height != 480 {
		t.Fatalf("viewport not resized: %+v", *s.State)
	}
	if s.State.Left != 50 || s.State.Right != 100 {
		t.Fatalf("resize should not touch the margins: %+v", *s.State)
	}
	s.Resize(-1, 0)
	if s.State.Width != 640 || s.State.Height != 480 {
		t.Fatalf("non-positive sizes should be ignored: %+v", *s.State)
	}
}

func TestSettleCountsFrames(t *testing.T) {
	s, _ := newTestSession(t, "ab cd")
	n, ok := s.Settle(600, 0.5)
	if !ok || n == 0 {
		t.Fatalf("Settle=(%d,%v), want convergence after some frames", n, ok)
	}
	if s.FrameCount() != n {
		t.Fatalf("frame count=%d, want %d settled frames", s.FrameCount(), n)
	}
	if r := s.Engine.Residual(s.Doc, s.State); r > 0.5 {
		t.Fatalf("residual=%g after settling", r)
	}
	if lines := s.Snapshot().Lines(2); len(lines) != 1 || lines[0] != "ab cd" {
		t.Fatalf("lines=%q", lines)
	}

	again, ok := s.Settle(600, 0.5)
	if again != 0 || !ok || s.FrameCount() != n {
		t.Fatalf("settled session should not step again: n=%d ok=%v frames=%d", again, ok, s.FrameCount())
	}
}

func TestSettleStopsAtLimit(t *testing.T) {
	s, _ := newTestSession(t, "drift")
	n, ok := s.Settle(1, 0)
	if n != 1 || ok {
		t.Fatalf("Settle(1, 0)=(%d,%v), want (1,false)", n, ok)
	}
	if s.FrameCount() != 1 {
		t.Fatalf("frame count=%d want 1", s.FrameCount())
	}
}

func TestTypedTextSettlesOnOneLine(t *testing.T) {
	s, surf := newTestSession(t, "ab")
	s.Controller.SetCursor(s.Doc.Tail())
	for _, r := range "xyz" {
		s.Controller.KeyPress(r)
	}
	for i := 0; i < 200; i++ {
		frame(s, surf)
	}
	snap := s.Snapshot()
	if snap.Text != "axyzb" || snap.Cursor != 4 {
		t.Fatalf("unexpected snapshot text=%q cursor=%d", snap.Text, snap.Cursor)
	}
	if lines := snap.Lines(0.5); len(lines) != 1 {
		t.Fatalf("lines=%q", lines)
	}
	if g := snap.Glyphs[4]; g.X < 89.99 || g.X > 90.01 || g.Y < 49.99 || g.Y > 50.01 {
		t.Fatalf("last glyph should settle at (90,50), got (%g,%g)", g.X, g.Y)
	}
}
