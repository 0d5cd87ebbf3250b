package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/letterdrift/dsl"
	"github.com/ByLCY/letterdrift/fonts"
	"github.com/ByLCY/letterdrift/layout"
	"github.com/ByLCY/letterdrift/logging"
	canvasrenderer "github.com/ByLCY/letterdrift/renderer/canvas"
	ebitenhost "github.com/ByLCY/letterdrift/renderer/ebiten"
	"github.com/ByLCY/letterdrift/script"
	"github.com/ByLCY/letterdrift/session"
)

func main() {
	input := flag.String("in", "examples/demo.scene", "场景脚本路径")
	output := flag.String("out", "output/demo.pdf", "输出路径：.pdf 生成逐帧 PDF，否则视为 PNG 目录")
	debug := flag.String("debug", "", "逐帧快照 JSON 输出路径")
	debugDesired := flag.Bool("debug-desired", false, "在快照中附带每个字符的期望位置")
	dataJSON := flag.String("data", "", "绑定到场景文本的 JSON 数据")
	live := flag.Bool("live", false, "打开窗口实时运行，忽略时间线")
	verbose := flag.Bool("v", false, "输出调试日志到 stderr")
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	prog, err := load(*input, inputData)
	if err != nil {
		log.Fatalf("加载场景失败: %v", err)
	}
	prog.Config.Debug = layout.DebugOptions{Desired: *debugDesired}

	if *live {
		if err := runLive(prog, filepath.Dir(*input)); err != nil {
			log.Fatalf("运行窗口失败: %v", err)
		}
		return
	}
	if err := run(prog, filepath.Dir(*input), *output, *debug); err != nil {
		log.Fatalf("回放场景失败: %v", err)
	}
	fmt.Printf("已输出：%s\n", *output)
}

// load 解析并编译场景脚本。
func load(inputPath string, data any) (*script.Program, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开场景文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	scene, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析场景失败: %w", err)
	}
	prog, err := script.Compile(scene, data)
	if err != nil {
		return nil, fmt.Errorf("编译场景失败: %w", err)
	}
	return prog, nil
}

// run 串联回放、导出与调试输出。
func run(prog *script.Program, baseDir, outputPath, debugPath string) error {
	r, err := canvasrenderer.NewRenderer(canvasrenderer.Options{
		BaseDir:  baseDir,
		Font:     prog.Font.Src,
		FontSize: prog.Font.Size.Px(),
		Title:    prog.Name,
	})
	if err != nil {
		return fmt.Errorf("创建渲染器失败: %w", err)
	}

	sess := session.New(prog.Config, r)
	runner := script.NewRunner(sess, r)
	actions := prog.Actions
	if !hasCapture(actions) {
		actions = append(actions, script.Action{Kind: script.ActSettle, N: script.DefaultSettleFrames}, script.Action{Kind: script.ActCapture})
	}
	if err := runner.Run(actions); err != nil {
		return err
	}

	if debugPath != "" {
		if err := writeDebug(runner.Snapshots, debugPath); err != nil {
			return err
		}
	}
	return export(r, outputPath)
}

func hasCapture(actions []script.Action) bool {
	for _, a := range actions {
		if a.Kind == script.ActCapture {
			return true
		}
	}
	return false
}

func export(r *canvasrenderer.Renderer, outputPath string) error {
	if !strings.EqualFold(filepath.Ext(outputPath), ".pdf") {
		paths, err := r.WritePNGs(outputPath)
		if err != nil {
			return fmt.Errorf("写入 PNG 失败: %w", err)
		}
		logging.Logger().Info("png frames written", "dir", outputPath, "count", len(paths))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建 PDF 文件失败: %w", err)
	}
	if err := r.WritePDF(f); err != nil {
		f.Close()
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	logging.Logger().Info("pdf written", "path", outputPath, "frames", r.Frames())
	return nil
}

func runLive(prog *script.Program, baseDir string) error {
	data, err := fonts.Load(prog.Font.Src, baseDir)
	if err != nil {
		logging.Logger().Warn("font fallback", "font", prog.Font.Src, "err", err)
		if data, err = fonts.Load(fonts.DefaultSource, ""); err != nil {
			return err
		}
	}
	surf, err := ebitenhost.NewSurface(data, prog.Font.Size.Px())
	if err != nil {
		return err
	}
	sess := session.New(prog.Config, surf)
	return ebitenhost.Run(sess, surf, prog.Name)
}

func writeDebug(snaps []layout.Snapshot, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(snaps, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
