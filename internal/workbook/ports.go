package workbook

// Sheet — одна страница книги, куда кладём картинки.
type Sheet interface {
	SetColumnWidth(col string, chars float64) error
	SetRowHeight(row int, pt float64) error
	AddPicture(cell, path string, scale float64) error
	SaveAs(path string) error
	Close() error
}

// NewSheetFunc создаёт пустую книгу с одним листом name.
type NewSheetFunc func(name string) (Sheet, error)

type Options struct {
	SheetName string
	FitWidth  int
	GapRows   int
	ExtraRows int
}

type Report struct {
	Placements []Placement
	// первая свободная строка после последней картинки
	NextRow int
}
