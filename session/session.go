package session

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/ByLCY/letterdrift/glyph"
	"github.com/ByLCY/letterdrift/interact"
	"github.com/ByLCY/letterdrift/layout"
	"github.com/ByLCY/letterdrift/logging"
	"github.com/ByLCY/letterdrift/renderer"
)

// DefaultText 是没有指定文本时加载的段落。
const DefaultText = "There was me, that is Alex, and my three droogs, that is Pete, Georgie, and Dim, " +
	"and we sat in the Korova Milkbar trying to make up our rassoodocks what to do with the evening. " +
	"The Korova Milk Bar sold milkplus, milk plus vellocet or synthemesc or drencrom which is what we " +
	"were drinking. This would sharpen you up and make you ready for a bit of the old ultra-violence. " +
	"Our pockets were full of money so there was no need on that score, but, as they say, money isn't everything."

// Config 汇总一次会话的全部可调参数（单位均为像素）。
type Config struct {
	Width      float64
	Height     float64
	Top        float64
	Left       float64
	Right      float64
	LineHeight float64

	SubSteps    int     // 每帧子步数
	BlinkPeriod int     // 光标闪烁半周期（帧）
	CaretWidth  float64 // 光标宽度
	Seed        uint64  // 入场动画随机种子

	Text                string
	AppendWithoutCursor bool

	TextColor  color.Color
	CaretColor color.Color
	GuideColor color.Color

	Debug layout.DebugOptions
}

// DefaultConfig returns the stock settings: 50px top/left margins, 100px right margin,
// 24px lines, 5 sub-steps per frame and a 30-frame caret blink.
func DefaultConfig() Config {
	return Config{
		Width:       1024,
		Height:      768,
		Top:         50,
		Left:        50,
		Right:       100,
		LineHeight:  24,
		SubSteps:    layout.DefaultSubSteps,
		BlinkPeriod: 30,
		CaretWidth:  3,
		Seed:        1,
		Text:        DefaultText,
		TextColor:   color.Black,
		CaretColor:  color.RGBA{R: 0x64, G: 0x95, B: 0xed, A: 0xff}, // cornflowerblue
		GuideColor:  color.RGBA{R: 0xef, G: 0xef, B: 0xef, A: 0xff},
	}
}

// Session 是顶层应用对象：持有文档、版面状态、布局引擎、交互控制器与帧计数。
// 所有方法都应在同一个 goroutine（帧循环）中调用。
type Session struct {
	cfg        Config
	Doc        *glyph.Document
	State      *layout.State
	Engine     *layout.Engine
	Controller *interact.Controller

	frame int
}

// New 创建会话，字符宽度由 m 测量；初始字符散布在视口内的随机位置，作为入场动画。
func New(cfg Config, m glyph.Measurer) *Session {
	def := DefaultConfig()
	if cfg.BlinkPeriod <= 0 {
		cfg.BlinkPeriod = def.BlinkPeriod
	}
	if cfg.CaretWidth <= 0 {
		cfg.CaretWidth = def.CaretWidth
	}
	if cfg.TextColor == nil {
		cfg.TextColor = def.TextColor
	}
	if cfg.CaretColor == nil {
		cfg.CaretColor = def.CaretColor
	}
	if cfg.GuideColor == nil {
		cfg.GuideColor = def.GuideColor
	}

	st := &layout.State{
		Top:        cfg.Top,
		Left:       cfg.Left,
		Right:      cfg.Right,
		LineHeight: cfg.LineHeight,
		Width:      cfg.Width,
		Height:     cfg.Height,
	}
	doc := glyph.NewDocument(m)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	doc.Load(cfg.Text, func() glyph.Vec {
		return glyph.Vec{
			X: math.Floor(rng.Float64() * st.Width),
			Y: math.Floor(rng.Float64() * st.Height),
		}
	})

	ctrl := interact.New(doc, st)
	ctrl.AppendWithoutCursor = cfg.AppendWithoutCursor

	engine := layout.NewEngine(layout.Options{SubSteps: cfg.SubSteps, Debug: cfg.Debug})
	logging.Logger().Info("session started", "glyphs", doc.Len(), "width", st.Width, "height", st.Height, "substeps", engine.SubSteps())
	return &Session{
		cfg:        cfg,
		Doc:        doc,
		State:      st,
		Engine:     engine,
		Controller: ctrl,
	}
}

// Config returns the effective configuration.
func (s *Session) Config() Config { return s.cfg }

// FrameCount returns how many frames have been stepped.
func (s *Session) FrameCount() int { return s.frame }

// Resize 把视口尺寸同步到版面状态，下一帧生效。
func (s *Session) Resize(width, height float64) { s.State.Resize(width, height) }

// Step 推进一帧：帧计数加一并执行全部布局子步。
func (s *Session) Step() {
	s.frame++
	s.Engine.Frame(s.Doc, s.State)
}

// CaretVisible reports whether the blinking caret is in its "on" half period.
func (s *Session) CaretVisible() bool {
	return (s.frame/s.cfg.BlinkPeriod)%2 == 0
}

// Draw 绘制版心参考框、全部字符以及光标字符处的闪烁光标。
func (s *Session) Draw(surf renderer.Surface) {
	st := s.State
	surf.SetStrokeColor(s.cfg.GuideColor)
	surf.StrokeRect(st.Left, st.Top-st.LineHeight, st.TextWidth(), st.Height)

	style := glyph.Style{
		Text:       s.cfg.TextColor,
		Caret:      s.cfg.CaretColor,
		CaretWidth: s.cfg.CaretWidth,
		LineHeight: st.LineHeight,
	}
	cursor := s.Controller.Cursor()
	caret := s.CaretVisible()
	for g := range s.Doc.All() {
		g.Render(surf, style, caret && g == cursor)
	}
}

// Settle 逐帧推进直到残差不超过 eps 或已推进 limit 帧，返回推进的帧数以及是否收敛。
// 与 Step 一样累加帧计数，因此光标闪烁相位与实时运行一致。
func (s *Session) Settle(limit int, eps float64) (int, bool) {
	for n := 0; n < limit; n++ {
		if s.Engine.Residual(s.Doc, s.State) <= eps {
			return n, true
		}
		s.Step()
	}
	return limit, s.Engine.Residual(s.Doc, s.State) <= eps
}

// Snapshot captures the current frame for debugging.
func (s *Session) Snapshot() layout.Snapshot {
	return s.Engine.Snapshot(s.frame, s.Doc, s.State, s.Controller.Cursor())
}
