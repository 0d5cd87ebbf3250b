package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/letterdrift/fonts"
	"github.com/ByLCY/letterdrift/logging"
	"github.com/ByLCY/letterdrift/renderer"
)

// canvas 内部以毫米为单位；这里把 1 个画布单位当作 1 个像素，
// 因此字号（px）需要换算为字体系统使用的 pt。
const ptPerUnit = 72.0 / 25.4

const strokeWidth = 1.0

// Renderer draws animation frames via github.com/tdewolff/canvas and exports them as
// PNG images or a PDF flip-book.
type Renderer struct {
	baseDir    string
	fontSrc    string
	fontSize   float64
	background color.Color
	title      string

	fontMu sync.Mutex
	family *canvas.FontFamily
	faces  map[color.RGBA]*canvas.FontFace
	widths map[string]float64

	cur           *canvas.Canvas
	ctx           *canvas.Context
	width, height float64
	fill, stroke  color.Color

	frames []frame
}

type frame struct {
	c             *canvas.Canvas
	width, height float64
}

var _ renderer.Exporter = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir    string      // 相对字体路径的根目录
	Font       string      // builtin:<name> 或文件路径
	FontSize   float64     // 字号（px）
	Background color.Color // 每帧的底色，默认白色
	Title      string      // PDF 元信息标题
}

// NewRenderer 加载字体并创建渲染器。字体加载失败时回退到内置字体。
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.FontSize <= 0 {
		opts.FontSize = 14 * 96.0 / 72.0
	}
	if opts.Background == nil {
		opts.Background = canvas.White
	}
	r := &Renderer{
		baseDir:    opts.BaseDir,
		fontSrc:    opts.Font,
		fontSize:   opts.FontSize,
		background: opts.Background,
		title:      opts.Title,
		faces:      map[color.RGBA]*canvas.FontFace{},
		widths:     map[string]float64{},
		fill:       canvas.Black,
		stroke:     canvas.Black,
	}
	family, err := loadFamily(opts.Font, opts.BaseDir)
	if err != nil {
		logging.Logger().Warn("font fallback", "font", opts.Font, "err", err)
		family, err = loadFamily(fonts.DefaultSource, "")
		if err != nil {
			return nil, fmt.Errorf("加载回退字体失败: %w", err)
		}
	}
	r.family = family
	return r, nil
}

func loadFamily(src, baseDir string) (*canvas.FontFamily, error) {
	data, err := fonts.Load(src, baseDir)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("letterdrift")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
	}
	return family, nil
}

// faceFor 按颜色缓存字体面；canvas 的文字颜色绑定在 FontFace 上。
func (r *Renderer) faceFor(c color.Color) *canvas.FontFace {
	key := color.RGBAModel.Convert(c).(color.RGBA)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face
	}
	face := r.family.Face(r.fontSize*ptPerUnit, key, canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = face
	return face
}

// MeasureText 返回 s 的宽度（px）。同一字符串的结果会被缓存，保证多次测量一致。
func (r *Renderer) MeasureText(s string) float64 {
	r.fontMu.Lock()
	w, ok := r.widths[s]
	r.fontMu.Unlock()
	if ok {
		return w
	}
	w = r.faceFor(canvas.Black).TextWidth(s)
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		w = 0
	}
	r.fontMu.Lock()
	r.widths[s] = w
	r.fontMu.Unlock()
	return w
}

// Begin 开始新的一帧：创建画布并铺底色。
func (r *Renderer) Begin(width, height float64) {
	r.width, r.height = width, height
	r.cur = canvas.New(width, height)
	r.ctx = canvas.NewContext(r.cur)
	r.ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与布局坐标一致
	r.ctx.SetFillColor(r.background)
	r.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	r.ctx.DrawPath(0, 0, canvas.Rectangle(width, height))
}

func (r *Renderer) Size() (float64, float64) { return r.width, r.height }

func (r *Renderer) SetFillColor(c color.Color)   { r.fill = c }
func (r *Renderer) SetStrokeColor(c color.Color) { r.stroke = c }

// FillText 以 (x, y) 为基线左端绘制文字。
func (r *Renderer) FillText(s string, x, y float64) {
	if r.ctx == nil {
		return
	}
	r.ctx.DrawText(x, y, canvas.NewTextLine(r.faceFor(r.fill), s, canvas.Left))
}

func (r *Renderer) FillRect(x, y, w, h float64) {
	if r.ctx == nil {
		return
	}
	r.ctx.SetFillColor(r.fill)
	r.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	r.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

// StrokeRect 描边矩形；宽或高为负（边距重叠）时不绘制。
func (r *Renderer) StrokeRect(x, y, w, h float64) {
	if r.ctx == nil || w <= 0 || h <= 0 {
		return
	}
	r.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	r.ctx.SetStrokeColor(r.stroke)
	r.ctx.SetStrokeWidth(strokeWidth)
	r.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

// Capture 保存当前帧，之后需要重新 Begin。
func (r *Renderer) Capture() error {
	if r.cur == nil {
		return fmt.Errorf("没有正在绘制的帧")
	}
	r.frames = append(r.frames, frame{c: r.cur, width: r.width, height: r.height})
	r.cur, r.ctx = nil, nil
	logging.Logger().Debug("frame captured", "index", len(r.frames)-1)
	return nil
}

func (r *Renderer) Frames() int { return len(r.frames) }

// WritePDF 把全部捕获帧写成 PDF，每帧一页。
func (r *Renderer) WritePDF(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("缺少可渲染的帧")
	}
	first := r.frames[0]
	writer := pdf.New(w, first.width, first.height, nil)
	writer.SetInfo(r.title, "letterdrift animation", "", "", "letterdrift")
	for i, f := range r.frames {
		if i > 0 {
			writer.NewPage(f.width, f.height)
		}
		f.c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

// EncodePNG 把第 i 帧栅格化（1 单位 = 1 像素）并编码为 PNG。
func (r *Renderer) EncodePNG(w io.Writer, i int) error {
	if i < 0 || i >= len(r.frames) {
		return fmt.Errorf("帧下标越界: %d", i)
	}
	img := rasterizer.Draw(r.frames[i].c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return nil
}

// WritePNGs 把全部捕获帧写入 dir，文件名为 frame-0000.png 等，返回写出的路径。
func (r *Renderer) WritePNGs(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	paths := make([]string, 0, len(r.frames))
	for i := range r.frames {
		var buf bytes.Buffer
		if err := r.EncodePNG(&buf, i); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", i))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("写入 %s 失败: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
