package script

import (
	"fmt"

	"github.com/ByLCY/letterdrift/layout"
	"github.com/ByLCY/letterdrift/logging"
	"github.com/ByLCY/letterdrift/renderer"
	"github.com/ByLCY/letterdrift/session"
)

// SettleEpsilon 是 settle 判定收敛的最大残差（px）。
const SettleEpsilon = 0.5

// Runner 在没有窗口的情况下回放时间线：输入事件交给交互控制器，
// 帧推进交给会话，capture 时把当前画面绘制到 Exporter。
type Runner struct {
	Session  *session.Session
	Exporter renderer.Exporter // 为空时 capture 只记录快照

	Snapshots []layout.Snapshot
}

// NewRunner creates a runner for sess; exp may be nil.
func NewRunner(sess *session.Session, exp renderer.Exporter) *Runner {
	return &Runner{Session: sess, Exporter: exp}
}

// Run 依次执行全部动作，遇到第一个错误即停止。
func (r *Runner) Run(actions []Action) error {
	for _, a := range actions {
		if err := r.Apply(a); err != nil {
			return fmt.Errorf("%s: %s: %w", a.Pos, a.Kind, err)
		}
	}
	return nil
}

// Apply 执行单个动作。
func (r *Runner) Apply(a Action) error {
	s := r.Session
	ctrl := s.Controller
	switch a.Kind {
	case ActAdvance:
		for i := 0; i < a.N; i++ {
			s.Step()
		}
	case ActSettle:
		r.settle(a.N)
	case ActDown:
		ctrl.PointerDown(a.X, a.Y)
	case ActMove:
		ctrl.PointerMove(a.X, a.Y)
	case ActUp:
		ctrl.PointerUp()
	case ActType:
		for _, ch := range a.Text {
			ctrl.KeyPress(ch)
		}
	case ActKey:
		ctrl.KeyDown(a.Text)
	case ActResize:
		s.Resize(a.X, a.Y)
	case ActCursor:
		if a.N < 0 {
			ctrl.SetCursor(nil)
		} else {
			ctrl.SetCursor(s.Doc.At(a.N))
		}
	case ActCapture:
		return r.capture()
	default:
		return ErrUnknownAction
	}
	return nil
}

// settle 推进帧直到残差不超过 SettleEpsilon 或达到 limit 帧。
func (r *Runner) settle(limit int) {
	n, ok := r.Session.Settle(limit, SettleEpsilon)
	if !ok {
		logging.Logger().Debug("settle gave up", "frames", n)
		return
	}
	logging.Logger().Debug("settled", "frames", n, "frame", r.Session.FrameCount())
}

func (r *Runner) capture() error {
	s := r.Session
	r.Snapshots = append(r.Snapshots, s.Snapshot())
	if r.Exporter == nil {
		return nil
	}
	r.Exporter.Begin(s.State.Width, s.State.Height)
	s.Draw(r.Exporter)
	return r.Exporter.Capture()
}
