package workbook

import "image"

// Калибровочные константы подобраны вручную по результату в Excel,
// из метрик шрифта они не выводятся.
const (
	// Column — единственная колонка с картинками
	Column = "A"

	// PixelsPerChar — ширина одного символа шрифта по умолчанию, px
	PixelsPerChar = 7.1
	// MinColumnChars — нижняя граница ширины колонки
	MinColumnChars = 10

	// PixelsPerRow — сколько пикселей картинки приходится на одну строку
	PixelsPerRow = 24

	// RowHeightPx — высота строки в пикселях до пересчёта в пункты
	RowHeightPx = 36
	// PointDivisor — поправочный делитель px→pt
	PointDivisor = 1.5
	// ScreenDPI — DPI, к которому привязан пересчёт px→pt
	ScreenDPI = 96
)

// RowHeightPt — высота каждой занятой строки в пунктах (18pt).
var RowHeightPt = PxToPt(RowHeightPx)

// PxToPt переводит пиксели в пункты с учётом PointDivisor.
func PxToPt(px float64) float64 {
	return px * 72.0 / ScreenDPI / PointDivisor
}

// ColumnWidth — ширина колонки в символах под картинки шириной fitWidth.
func ColumnWidth(fitWidth int) int {
	return max(MinColumnChars, int(float64(fitWidth)/PixelsPerChar))
}

// Scale подгоняет картинку по ширине fitWidth с сохранением пропорций.
func Scale(nativeW, nativeH, fitWidth int) (scale float64, w, h int) {
	scale = 1.0
	if nativeW != 0 {
		scale = float64(fitWidth) / float64(nativeW)
	}
	return scale, int(float64(nativeW) * scale), int(float64(nativeH) * scale)
}

// RowsUsed — сколько строк занимает картинка высотой displayH.
func RowsUsed(displayH int) int {
	return max(1, displayH/PixelsPerRow)
}

type Placement struct {
	Row    int
	Rows   int
	Scale  float64
	Width  int
	Height int
}

// Layout — одна колонка, курсор строк только растёт.
type Layout struct {
	FitWidth  int
	GapRows   int
	ExtraRows int
}

// Place раскладывает картинки с исходными размерами sizes сверху вниз.
// Возвращает позиции и первую свободную строку после последней картинки.
func (l Layout) Place(sizes []image.Point) ([]Placement, int) {
	row := 1
	out := make([]Placement, 0, len(sizes))
	for _, sz := range sizes {
		scale, w, h := Scale(sz.X, sz.Y, l.FitWidth)
		rows := RowsUsed(h)
		out = append(out, Placement{
			Row:    row,
			Rows:   rows,
			Scale:  scale,
			Width:  w,
			Height: h,
		})
		row += rows + l.GapRows + l.ExtraRows
	}
	return out, row
}
