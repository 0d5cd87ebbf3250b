package interact

import (
	"unicode"

	"github.com/ByLCY/letterdrift/glyph"
	"github.com/ByLCY/letterdrift/layout"
	"github.com/ByLCY/letterdrift/logging"
)

// KeyBackspace 是唯一会被处理的按键名。
const KeyBackspace = "Backspace"

// Controller 把原始输入事件翻译成文档编辑、边距拖动与单个字符的拖动。
// 所有方法都只修改状态，不做布局或绘制；返回时链表总是一致的。
type Controller struct {
	doc   *glyph.Document
	state *layout.State

	// AppendWithoutCursor 为 true 时，没有光标字符的按键会追加到文末；
	// 默认（false）下没有光标时按键被忽略。
	AppendWithoutCursor bool

	cursor      *glyph.Glyph
	movingLeft  bool
	movingRight bool
}

// New creates a controller editing doc under the margins in state.
func New(doc *glyph.Document, state *layout.State) *Controller {
	return &Controller{doc: doc, state: state}
}

// Cursor returns the glyph right after the insertion point, or nil.
func (c *Controller) Cursor() *glyph.Glyph { return c.cursor }

// SetCursor moves the insertion point in front of g (nil = none).
func (c *Controller) SetCursor(g *glyph.Glyph) { c.cursor = g }

func (c *Controller) DraggingLeftMargin() bool  { return c.movingLeft }
func (c *Controller) DraggingRightMargin() bool { return c.movingRight }

// PointerDown 按优先级处理按下：左边距区域 → 右边距区域 → 字符命中测试。
// 边距检查先于命中测试，因此靠近边缘、与边距区域重叠的字符无法被点中。
func (c *Controller) PointerDown(x, y float64) {
	c.movingLeft = false
	c.movingRight = false
	switch {
	case x <= c.state.Left:
		c.movingLeft = true
		logging.Logger().Debug("margin drag begin", "side", "left", "x", x)
	case c.state.Width-x <= c.state.Right:
		c.movingRight = true
		logging.Logger().Debug("margin drag begin", "side", "right", "x", x)
	default:
		c.cursor = c.hitTest(x, y)
		if c.cursor != nil {
			c.cursor.Dragging = true
		}
	}
}

// hitTest 从头到尾查找第一个包含 (x, y) 的字符。
func (c *Controller) hitTest(x, y float64) *glyph.Glyph {
	for g := range c.doc.All() {
		if g.ContainsPoint(x, y, c.state.LineHeight) {
			return g
		}
	}
	return nil
}

// PointerMove 在边距拖动时更新边距，否则把正在拖动的光标字符直接放到指针处。
func (c *Controller) PointerMove(x, y float64) {
	switch {
	case c.movingLeft:
		c.state.SetLeft(x)
	case c.movingRight:
		c.state.SetRight(c.state.Width - x)
	case c.cursor != nil && c.cursor.Dragging:
		c.cursor.Pos = glyph.Vec{X: x, Y: y}
	}
}

// PointerUp ends margin drags and releases the dragged glyph.
func (c *Controller) PointerUp() {
	if c.movingLeft || c.movingRight {
		logging.Logger().Debug("margin drag end", "left", c.state.Left, "right", c.state.Right)
	}
	c.movingLeft = false
	c.movingRight = false
	if c.cursor != nil {
		c.cursor.Dragging = false
	}
}

// KeyPress 在光标字符之前插入 r。不可打印字符被忽略。
func (c *Controller) KeyPress(r rune) {
	if !unicode.IsPrint(r) {
		return
	}
	if c.cursor == nil && !c.AppendWithoutCursor {
		return
	}
	c.doc.InsertBefore(c.cursor, r)
	logging.Logger().Debug("glyph inserted", "value", string(r), "len", c.doc.Len())
}

// KeyDown 处理命名按键；目前只有 Backspace 有效。
func (c *Controller) KeyDown(key string) {
	if key != KeyBackspace {
		return
	}
	var removed *glyph.Glyph
	if c.cursor == nil && c.AppendWithoutCursor {
		removed = c.doc.RemoveTail()
	} else {
		removed = c.doc.RemoveBefore(c.cursor)
	}
	if removed != nil {
		logging.Logger().Debug("glyph removed", "value", removed.String())
	}
}
