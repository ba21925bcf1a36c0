package pdf

import (
	"image"
	"image/color"
	"image/draw"
)

// ToRGB копирует img на непрозрачный белый холст того же размера.
// Альфа-канал после этого всегда 0xff.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// TrimBand возвращает вертикальную полосу [y0, y0+h), которая останется
// после обрезки страницы высотой height. h всегда >= 1.
func TrimBand(height int, t Trim) (y0, h int) {
	top := max(0, min(t.Top, height))
	bottom := max(0, min(t.Bottom, height-top))
	h = max(1, height-top-bottom)
	y0 = top
	// top == height: оставляем последнюю строку
	if y0+h > height {
		y0 = max(0, height-h)
	}
	return y0, h
}

// TrimImage режет img по вертикали. Если резать нечего, возвращает сам img,
// иначе независимую копию.
func TrimImage(img *image.RGBA, t Trim) *image.RGBA {
	b := img.Bounds()
	y0, h := TrimBand(b.Dy(), t)
	if y0 == 0 && h == b.Dy() {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), h))
	draw.Draw(out, out.Bounds(), img, image.Pt(b.Min.X, b.Min.Y+y0), draw.Src)
	return out
}
