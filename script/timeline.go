package script

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/letterdrift/dsl"
)

// ActionKind 区分时间线动作。
type ActionKind int

const (
	ActAdvance ActionKind = iota // 推进 N 帧
	ActDown                      // 指针按下
	ActMove                      // 指针移动
	ActUp                        // 指针抬起
	ActType                      // 逐字符按键输入
	ActKey                       // 命名按键（Backspace）
	ActResize                    // 调整视口
	ActSettle                    // 推进直到收敛
	ActCursor                    // 把光标放到第 N 个字符之前，-1 表示文末
	ActCapture                   // 绘制并保存当前帧
)

var actionNames = map[string]ActionKind{
	"advance": ActAdvance,
	"down":    ActDown,
	"move":    ActMove,
	"up":      ActUp,
	"type":    ActType,
	"key":     ActKey,
	"resize":  ActResize,
	"settle":  ActSettle,
	"cursor":  ActCursor,
	"capture": ActCapture,
}

func (k ActionKind) String() string {
	for name, kind := range actionNames {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// DefaultSettleFrames 是 settle 未指定上限时最多推进的帧数。
const DefaultSettleFrames = 600

// Action 是一条时间线动作。
type Action struct {
	Kind ActionKind
	X, Y float64
	N    int
	Text string
	Pos  lexer.Position
}

func compileTimeline(st *dsl.Statement) ([]Action, error) {
	if st.Block == nil {
		return nil, fmt.Errorf("timeline 缺少动作块")
	}
	actions := make([]Action, 0, len(st.Block.Statements))
	for _, s := range st.Block.Statements {
		a, err := compileAction(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", s.Pos, s.Name, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func compileAction(s *dsl.Statement) (Action, error) {
	kind, ok := actionNames[s.Name]
	if !ok {
		return Action{}, ErrUnknownAction
	}
	a := Action{Kind: kind, Pos: s.Pos}
	var err error
	switch kind {
	case ActAdvance:
		a.N, err = positiveInt(s, 1)
	case ActSettle:
		a.N, err = positiveInt(s, DefaultSettleFrames)
	case ActDown, ActMove, ActResize:
		a.X, a.Y, err = pair(s)
	case ActUp, ActCapture:
		err = arity(s, 0)
	case ActType, ActKey:
		if err = arity(s, 1); err == nil {
			a.Text = s.Args[0].Raw()
		}
	case ActCursor:
		err = compileCursor(&a, s)
	}
	return a, err
}

func compileCursor(a *Action, s *dsl.Statement) error {
	if err := arity(s, 1); err != nil {
		return err
	}
	if s.Args[0].Raw() == "end" {
		a.N = -1
		return nil
	}
	n, err := strconv.Atoi(s.Args[0].Raw())
	if err != nil || n < 0 {
		return fmt.Errorf("光标位置应为非负整数或 end，实际 %q", s.Args[0].Raw())
	}
	a.N = n
	return nil
}
