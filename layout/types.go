package layout

import "github.com/ByLCY/letterdrift/glyph"

// 该文件定义动画状态的快照结构，供调试 JSON 与测试共用。

// Snapshot 记录某一帧的版面参数、光标与全部字符的位置。
type Snapshot struct {
	Frame  int          `json:"frame"`
	State  State        `json:"state"`
	Cursor int          `json:"cursor"` // 光标字符下标，-1 表示文末
	Text   string       `json:"text"`
	Glyphs []GlyphState `json:"glyphs"`
}

// GlyphState 是单个字符的快照。
type GlyphState struct {
	Value    string     `json:"value"`
	Width    float64    `json:"width"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Dragging bool       `json:"dragging,omitempty"`
	Desired  *glyph.Vec `json:"desired,omitempty"`
}

// Snapshot 生成当前帧的快照；DebugOptions.Desired 打开时附带期望位置。
func (e *Engine) Snapshot(frame int, doc *glyph.Document, st *State, cursor *glyph.Glyph) Snapshot {
	snap := Snapshot{
		Frame:  frame,
		State:  *st,
		Cursor: doc.Index(cursor),
		Text:   doc.Text(),
		Glyphs: make([]GlyphState, 0, doc.Len()),
	}
	for g := range doc.All() {
		gs := GlyphState{
			Value:    g.String(),
			Width:    g.Width,
			X:        g.Pos.X,
			Y:        g.Pos.Y,
			Dragging: g.Dragging,
		}
		if e.debug.Desired {
			d := g.Desired()
			gs.Desired = &d
		}
		snap.Glyphs = append(snap.Glyphs, gs)
	}
	return snap
}

// Lines 按基线 y 对快照中的字符分组，返回每行的文本（用于调试与测试）。
// tolerance 内的基线视为同一行。
func (s Snapshot) Lines(tolerance float64) []string {
	var lines []string
	var cur []byte
	lastY := 0.0
	for i, g := range s.Glyphs {
		if i > 0 && abs(g.Y-lastY) > tolerance {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
		cur = append(cur, g.Value...)
		lastY = g.Y
	}
	if len(s.Glyphs) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
