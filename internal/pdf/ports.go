package pdf

import (
	"context"
	"image"
)

// PointsPerInch — нативная единица рендерера (PDF user space).
const PointsPerInch = 72.0

// Document — открытый PDF. Индексы страниц 0-based.
type Document interface {
	PageCount() int
	RenderPage(ctx context.Context, index int, dpi int) (image.Image, error)
	Close() error
}

type Opener interface {
	Open(ctx context.Context, path string) (Document, error)
}

// Trim — сколько пикселей срезать сверху и снизу каждой страницы.
type Trim struct {
	Top    int
	Bottom int
}

// Zoom переводит DPI в масштаб относительно 72 dpi.
func Zoom(dpi int) float64 {
	return float64(dpi) / PointsPerInch
}
