package layout

// DefaultSubSteps 是每帧执行的缓动子步数。
const DefaultSubSteps = 5

// Options 配置布局引擎。
type Options struct {
	SubSteps int // 每帧子步数，<=0 时使用 DefaultSubSteps
	Debug    DebugOptions
}

// DebugOptions 控制调试快照中输出的内容。
type DebugOptions struct {
	Desired bool // 在快照中附带每个字符最近一次计算出的期望位置
}
