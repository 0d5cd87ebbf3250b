package layout

import (
	"math"

	"github.com/ByLCY/letterdrift/glyph"
)

// Engine 是逐帧驱动的布局器：每帧执行若干子步，每个子步先为全部字符计算期望位置，
// 再统一应用缓动。两个阶段不能合并成一次遍历，否则靠后的字符会看到本子步已移动过的前驱。
type Engine struct {
	subSteps int
	debug    DebugOptions
}

// NewEngine creates an engine from opts.
func NewEngine(opts Options) *Engine {
	n := opts.SubSteps
	if n <= 0 {
		n = DefaultSubSteps
	}
	return &Engine{subSteps: n, debug: opts.Debug}
}

// SubSteps returns the number of sub-steps per frame.
func (e *Engine) SubSteps() int { return e.subSteps }

// Frame 执行一帧的全部子步。
func (e *Engine) Frame(doc *glyph.Document, st *State) {
	for i := 0; i < e.subSteps; i++ {
		e.SubStep(doc, st)
	}
}

// SubStep runs one compute pass followed by one apply pass.
func (e *Engine) SubStep(doc *glyph.Document, st *State) {
	b := st.Bounds()
	for g := range doc.All() {
		g.ComputeDesired(b)
	}
	for g := range doc.All() {
		g.ApplyStep()
	}
}

// Residual 重新计算期望位置并返回所有字符中距目标的最大分量距离。
// 不移动任何字符。
func (e *Engine) Residual(doc *glyph.Document, st *State) float64 {
	b := st.Bounds()
	worst := 0.0
	for g := range doc.All() {
		d := g.ComputeDesired(b).Sub(g.Pos)
		worst = math.Max(worst, math.Max(math.Abs(d.X), math.Abs(d.Y)))
	}
	return worst
}
