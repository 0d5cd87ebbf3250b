package glyph

import (
	"image/color"
	"math"
)

// 该文件定义单个字符节点（Glyph）及其期望位置、缓动与命中测试规则。

// Vec 是画布上的二维坐标，单位为像素；Y 为文字基线。
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale multiplies both components by f.
func (v Vec) Scale(f float64) Vec { return Vec{X: v.X * f, Y: v.Y * f} }

// Bounds 汇总一次子步中计算期望位置所需的版面参数。
// Width 为视口宽度，右边距从视口右缘向内计算。
type Bounds struct {
	Top        float64
	Left       float64
	Right      float64
	LineHeight float64
	Width      float64
}

// WrapLimit 返回一行文字允许到达的最大 x（不含）。
func (b Bounds) WrapLimit() float64 { return b.Width - b.Right }

// Glyph 是文档链表中的一个字符节点。
// prev/next 只是导航引用，链的结构由 Document 维护。
type Glyph struct {
	Value    rune
	Width    float64
	Pos      Vec
	Dragging bool

	desired Vec
	prev    *Glyph
	next    *Glyph
}

// newGlyph 创建节点；无法测量（NaN、无穷或负值）的宽度按 0 处理。
func newGlyph(value rune, width float64, pos Vec) *Glyph {
	if math.IsNaN(width) || math.IsInf(width, 0) || width < 0 {
		width = 0
	}
	return &Glyph{Value: value, Width: width, Pos: pos}
}

func (g *Glyph) Prev() *Glyph { return g.prev }
func (g *Glyph) Next() *Glyph { return g.next }

// Desired returns the target computed by the last ComputeDesired call.
func (g *Glyph) Desired() Vec { return g.desired }

// IsSpace reports whether the glyph is a word separator.
func (g *Glyph) IsSpace() bool { return g.Value == ' ' }

// String returns the glyph's character.
func (g *Glyph) String() string { return string(g.Value) }

// rightEdge 是紧跟在该字符之后的位置（同一基线）。
func (g *Glyph) rightEdge() Vec { return Vec{X: g.Pos.X + g.Width, Y: g.Pos.Y} }

// ComputeDesired 计算并记录本子步的期望位置。
// 只读取前驱的当前位置与宽度，不修改任何节点的 Pos。
func (g *Glyph) ComputeDesired(b Bounds) Vec {
	switch {
	case g.Dragging:
		g.desired = g.Pos
	case g.prev == nil:
		g.desired = Vec{X: b.Left, Y: b.Top}
	case g.IsSpace():
		// 空格自身永不换行
		g.desired = g.prev.rightEdge()
	case !g.prev.IsSpace() || g.FitsStartingAt(g.prev.Pos.X+g.prev.Width, b):
		g.desired = g.prev.rightEdge()
	default:
		g.desired = Vec{X: b.Left, Y: g.prev.Pos.Y + b.LineHeight}
	}
	return g.desired
}

// FitsStartingAt 判断从 x 开始放置时，当前单词剩余部分是否能在右边距之前放下。
// 探测到下一个空格或链尾即停止，因此代价与单词长度成正比。
func (g *Glyph) FitsStartingAt(x float64, b Bounds) bool {
	limit := b.WrapLimit()
	for cur := g; cur != nil; cur = cur.next {
		if cur.IsSpace() {
			return true
		}
		x += cur.Width
		if !(x < limit) {
			return false
		}
	}
	return true
}

// ApplyStep moves the glyph half of the remaining distance toward its desired position.
func (g *Glyph) ApplyStep() {
	g.Pos = g.Pos.Add(g.desired.Sub(g.Pos).Scale(0.5))
}

// ContainsPoint 命中测试：x ∈ [X, X+Width)，y ∈ [Y-lineHeight, Y)。
func (g *Glyph) ContainsPoint(x, y, lineHeight float64) bool {
	return g.Pos.X <= x && x < g.Pos.X+g.Width &&
		g.Pos.Y-lineHeight <= y && y < g.Pos.Y
}

// Painter is the subset of a drawing surface a glyph needs to draw itself.
type Painter interface {
	SetFillColor(c color.Color)
	FillText(s string, x, y float64)
	FillRect(x, y, w, h float64)
}

// Style 描述字符与光标的绘制参数。
type Style struct {
	Text       color.Color
	Caret      color.Color
	CaretWidth float64
	LineHeight float64
}

// Render 在当前位置绘制字符；caret 为 true 时在左侧附加一条竖向光标。
func (g *Glyph) Render(p Painter, st Style, caret bool) {
	p.SetFillColor(st.Text)
	p.FillText(string(g.Value), g.Pos.X, g.Pos.Y)
	if !caret {
		return
	}
	p.SetFillColor(st.Caret)
	p.FillRect(g.Pos.X, g.Pos.Y-st.LineHeight+4, st.CaretWidth, st.LineHeight)
}
