// Package ebitenhost 在 Ebiten 窗口中实时运行会话：鼠标与键盘事件交给交互控制器，
// 每个 tick 推进一帧，每次 Draw 把字符绘制到屏幕。
package ebitenhost

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/letterdrift/interact"
	"github.com/ByLCY/letterdrift/logging"
	"github.com/ByLCY/letterdrift/session"
)

// Surface 把 renderer.Surface 的绘制原语映射到 *ebiten.Image。
// 每帧绘制前需用 Bind 绑定目标图像。
type Surface struct {
	face   *text.GoXFace
	ascent float64
	dst    *ebiten.Image
	fill   color.Color
	stroke color.Color
	widths map[string]float64
}

// NewSurface 用 TrueType/OpenType 字体数据创建 surface，字号单位为 px。
func NewSurface(fontData []byte, sizePx float64) (*Surface, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("字号必须为正数: %g", sizePx)
	}
	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	xface, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePx, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("创建字体 face 失败: %w", err)
	}
	face := text.NewGoXFace(xface)
	return &Surface{
		face:   face,
		ascent: face.Metrics().HAscent,
		fill:   color.Black,
		stroke: color.Black,
		widths: map[string]float64{},
	}, nil
}

// Bind 设置后续绘制的目标图像。
func (s *Surface) Bind(dst *ebiten.Image) { s.dst = dst }

// MeasureText 返回字符串的排版宽度（px），结果按字符串缓存。
func (s *Surface) MeasureText(str string) float64 {
	if w, ok := s.widths[str]; ok {
		return w
	}
	w := text.Advance(str, s.face)
	if math.IsNaN(w) || w < 0 {
		w = 0
	}
	s.widths[str] = w
	return w
}

// Size returns the bound image size, or zero when nothing is bound.
func (s *Surface) Size() (float64, float64) {
	if s.dst == nil {
		return 0, 0
	}
	b := s.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *Surface) SetFillColor(c color.Color)   { s.fill = c }
func (s *Surface) SetStrokeColor(c color.Color) { s.stroke = c }

// FillText 以 (x, y) 为左侧基线绘制文字。text/v2 以行框左上角定位，因此上移一个 ascent。
func (s *Surface) FillText(str string, x, y float64) {
	if s.dst == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-s.ascent)
	op.ColorScale.ScaleWithColor(s.fill)
	text.Draw(s.dst, str, s.face, op)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	if s.dst == nil || w <= 0 || h <= 0 {
		return
	}
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(w), float32(h), s.fill, false)
}

func (s *Surface) StrokeRect(x, y, w, h float64) {
	if s.dst == nil || w <= 0 || h <= 0 {
		return
	}
	vector.StrokeRect(s.dst, float32(x), float32(y), float32(w), float32(h), 1, s.stroke, false)
}

// Game 实现 ebiten.Game。
type Game struct {
	sess       *session.Session
	surf       *Surface
	background color.Color
	pressed    bool
}

// NewGame wraps sess; the session's measurer should be surf so widths match what is drawn.
func NewGame(sess *session.Session, surf *Surface) *Game {
	return &Game{sess: sess, surf: surf, background: color.White}
}

// Update 把本 tick 的输入转发给控制器，然后推进一帧。
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	ctrl := g.sess.Controller
	x, y := ebiten.CursorPosition()
	px, py := float64(x), float64(y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.pressed = true
		ctrl.PointerDown(px, py)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.pressed = false
		ctrl.PointerUp()
	case g.pressed:
		ctrl.PointerMove(px, py)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		ctrl.KeyDown(interact.KeyBackspace)
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		ctrl.KeyPress(r)
	}
	g.sess.Step()
	g.updateCursorShape()
	return nil
}

// updateCursorShape 在拖动边距时显示水平调整光标。
func (g *Game) updateCursorShape() {
	ctrl := g.sess.Controller
	if ctrl.DraggingLeftMargin() || ctrl.DraggingRightMargin() {
		ebiten.SetCursorShape(ebiten.CursorShapeEWResize)
		return
	}
	ebiten.SetCursorShape(ebiten.CursorShapeDefault)
}

// Draw 清屏后绘制会话当前帧。
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	g.surf.Bind(screen)
	g.sess.Draw(g.surf)
}

// Layout 让逻辑尺寸跟随窗口尺寸，并同步到版面状态。
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.sess.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Run 打开窗口并阻塞直到窗口关闭或按下 Esc。
func Run(sess *session.Session, surf *Surface, title string) error {
	cfg := sess.Config()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(cfg.Width), int(cfg.Height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	logging.Logger().Info("live window", "title", title, "width", cfg.Width, "height", cfg.Height)
	if err := ebiten.RunGame(NewGame(sess, surf)); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
