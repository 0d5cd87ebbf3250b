package layout

import "github.com/ByLCY/letterdrift/glyph"

// State 保存版面参数：上/左/右边距、行高与视口尺寸（单位均为像素）。
// 由 session 持有，以指针形式交给引擎与交互控制器。
type State struct {
	Top        float64 `json:"top"`
	Left       float64 `json:"left"`
	Right      float64 `json:"right"`
	LineHeight float64 `json:"lineHeight"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Bounds converts the state into the parameters a glyph needs for one sub-step.
func (s *State) Bounds() glyph.Bounds {
	return glyph.Bounds{
		Top:        s.Top,
		Left:       s.Left,
		Right:      s.Right,
		LineHeight: s.LineHeight,
		Width:      s.Width,
	}
}

// Resize 更新视口尺寸；非正值保持原值不变。
func (s *State) Resize(width, height float64) {
	if width > 0 {
		s.Width = width
	}
	if height > 0 {
		s.Height = height
	}
}

// SetLeft 把左边距设为 x，限制在 [0, Width]。
func (s *State) SetLeft(x float64) { s.Left = clamp(x, 0, s.Width) }

// SetRight 把右边距设为 r（自视口右缘计），限制在 [0, Width]。
func (s *State) SetRight(r float64) { s.Right = clamp(r, 0, s.Width) }

// TextWidth returns the horizontal room between the margins; it may be negative
// when the margins overlap.
func (s *State) TextWidth() float64 { return s.Width - s.Left - s.Right }

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
