package pdf

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
)

// fakeOpener отдаёт документ со страницами заданного размера в пунктах.
// Каждая страница залита своим цветом, чтобы проверять порядок.
type fakeOpener struct {
	pagesPt  []image.Point
	openErr  error
	opened   int
	closed   int
	rendered []int
}

func (o *fakeOpener) Open(_ context.Context, _ string) (Document, error) {
	o.opened++
	if o.openErr != nil {
		return nil, o.openErr
	}
	return &fakeDocument{o: o}, nil
}

type fakeDocument struct {
	o *fakeOpener
}

func (d *fakeDocument) PageCount() int { return len(d.o.pagesPt) }

func (d *fakeDocument) RenderPage(_ context.Context, index int, dpi int) (image.Image, error) {
	if index < 0 || index >= len(d.o.pagesPt) {
		return nil, errors.New("no such page")
	}
	d.o.rendered = append(d.o.rendered, index)
	pt := d.o.pagesPt[index]
	w := int(math.Round(float64(pt.X) * Zoom(dpi)))
	h := int(math.Round(float64(pt.Y) * Zoom(dpi)))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	c := pageColor(index)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

func (d *fakeDocument) Close() error {
	d.o.closed++
	return nil
}

func pageColor(index int) color.NRGBA {
	return color.NRGBA{R: uint8(10 * (index + 1)), G: 0x80, B: 0x40, A: 0xff}
}
