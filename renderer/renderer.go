package renderer

import "image/color"

// Surface 是绘制协作者：测量文字、设置颜色并填充/描边。
// 坐标单位为像素，原点在左上角，文字以基线定位。
type Surface interface {
	MeasureText(s string) float64
	Size() (width, height float64)
	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	FillText(s string, x, y float64)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
}

// Exporter 把捕获的帧输出为最终文件，例如 PDF 翻页动画或 PNG 序列。
type Exporter interface {
	Surface
	// Begin 开始一帧新的绘制，画布尺寸为 width×height。
	Begin(width, height float64)
	// Capture 保存当前帧。
	Capture() error
	// Frames 返回已捕获的帧数。
	Frames() int
}
