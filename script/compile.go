package script

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ByLCY/letterdrift/binding"
	"github.com/ByLCY/letterdrift/dsl"
	"github.com/ByLCY/letterdrift/fonts"
	"github.com/ByLCY/letterdrift/layout"
	"github.com/ByLCY/letterdrift/session"
)

var (
	// ErrUnknownSetting 表示场景中出现了未知的顶层语句。
	ErrUnknownSetting = errors.New("unknown scene setting")
	// ErrUnknownAction 表示时间线中出现了未知的动作。
	ErrUnknownAction = errors.New("unknown timeline action")
)

// FontSpec 描述字体来源与字号。
type FontSpec struct {
	Src  string
	Size layout.Length
}

// Program 是编译后的场景：会话配置、字体以及按顺序执行的时间线动作。
type Program struct {
	Name    string
	Config  session.Config
	Font    FontSpec
	Actions []Action
}

// Compile 把场景 AST 转成 Program；文本中的 ${...} 占位符用 data 填充。
func Compile(scene *dsl.Scene, data any) (*Program, error) {
	if scene == nil || scene.Body == nil {
		return nil, fmt.Errorf("场景为空")
	}
	prog := &Program{
		Name:   string(scene.Name),
		Config: session.DefaultConfig(),
		Font:   FontSpec{Src: fonts.DefaultSource, Size: layout.Length{Value: 14, Unit: layout.UnitPT}},
	}
	lineHeight := layout.LineHeightSpec{Kind: layout.LineHeightAbsolute, Len: layout.Length{Value: prog.Config.LineHeight, Unit: layout.UnitPX}}

	for _, st := range scene.Body.Statements {
		var err error
		switch st.Name {
		case "viewport":
			prog.Config.Width, prog.Config.Height, err = pair(st)
		case "margin":
			err = compileMargin(&prog.Config, st)
		case "line-height":
			if err = arity(st, 1); err == nil {
				lineHeight, err = layout.ParseLineHeight(st.Args[0].Raw())
			}
		case "font":
			err = compileFont(&prog.Font, st)
		case "substeps":
			prog.Config.SubSteps, err = positiveInt(st, 0)
		case "blink":
			prog.Config.BlinkPeriod, err = positiveInt(st, 0)
		case "seed":
			if err = arity(st, 1); err == nil {
				prog.Config.Seed, err = strconv.ParseUint(st.Args[0].Raw(), 10, 64)
			}
		case "text":
			if err = arity(st, 1); err == nil {
				var text string
				if text, err = stringArg(st.Args[0]); err == nil {
					prog.Config.Text = binding.Interpolate(text, data)
				}
			}
		case "append":
			prog.Config.AppendWithoutCursor, err = flag(st)
		case "timeline":
			var actions []Action
			actions, err = compileTimeline(st)
			prog.Actions = append(prog.Actions, actions...)
		default:
			err = ErrUnknownSetting
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", st.Pos, st.Name, err)
		}
	}

	prog.Config.LineHeight = lineHeight.Resolve(prog.Font.Size)
	if prog.Config.LineHeight <= 0 {
		return nil, fmt.Errorf("行高必须为正数: %g", prog.Config.LineHeight)
	}
	return prog, nil
}

func compileMargin(cfg *session.Config, st *dsl.Statement) error {
	if err := arity(st, 2); err != nil {
		return err
	}
	l, err := layout.ParseLength(st.Args[1].Raw())
	if err != nil {
		return err
	}
	switch side := st.Args[0].Raw(); side {
	case "top":
		cfg.Top = l.Px()
	case "left":
		cfg.Left = l.Px()
	case "right":
		cfg.Right = l.Px()
	default:
		return fmt.Errorf("未知的边距 %q（应为 top/left/right）", side)
	}
	return nil
}

func compileFont(f *FontSpec, st *dsl.Statement) error {
	if len(st.Args) == 0 || len(st.Args) > 2 {
		return fmt.Errorf("需要 1 到 2 个参数，实际 %d 个", len(st.Args))
	}
	src, err := stringArg(st.Args[0])
	if err != nil {
		return err
	}
	f.Src = src
	if len(st.Args) == 2 {
		size, err := layout.ParseLength(st.Args[1].Raw())
		if err != nil {
			return err
		}
		if size.Px() <= 0 {
			return fmt.Errorf("字号必须为正数")
		}
		f.Size = size
	}
	return nil
}

func arity(st *dsl.Statement, n int) error {
	if len(st.Args) != n {
		return fmt.Errorf("需要 %d 个参数，实际 %d 个", n, len(st.Args))
	}
	return nil
}

func stringArg(a *dsl.Arg) (string, error) {
	if a.Kind() != "string" {
		return "", fmt.Errorf("需要字符串，实际为 %s %q", a.Kind(), a.Raw())
	}
	return a.Raw(), nil
}

func number(a *dsl.Arg) (float64, error) {
	if a.Kind() != "number" {
		return 0, fmt.Errorf("需要数值，实际为 %s %q", a.Kind(), a.Raw())
	}
	l, err := layout.ParseLength(a.Raw())
	if err != nil {
		return 0, fmt.Errorf("无法解析数值 %q: %w", a.Raw(), err)
	}
	return l.Px(), nil
}

func pair(st *dsl.Statement) (float64, float64, error) {
	if err := arity(st, 2); err != nil {
		return 0, 0, err
	}
	x, err := number(st.Args[0])
	if err != nil {
		return 0, 0, err
	}
	y, err := number(st.Args[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// positiveInt 解析唯一的整数参数；没有参数时返回 def（def 为 0 表示参数必填）。
func positiveInt(st *dsl.Statement, def int) (int, error) {
	if len(st.Args) == 0 && def > 0 {
		return def, nil
	}
	if err := arity(st, 1); err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(st.Args[0].Raw())
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("需要正整数，实际 %d", n)
	}
	return n, nil
}

func flag(st *dsl.Statement) (bool, error) {
	if len(st.Args) == 0 {
		return true, nil
	}
	if err := arity(st, 1); err != nil {
		return false, err
	}
	return strconv.ParseBool(st.Args[0].Raw())
}
