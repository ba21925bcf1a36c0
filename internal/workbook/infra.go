package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type excelizeSheet struct {
	f     *excelize.File
	sheet string
}

// NewExcelizeSheet — книга excelize с единственным листом name.
func NewExcelizeSheet(name string) (Sheet, error) {
	f := excelize.NewFile()
	def := f.GetSheetName(0)
	if name != def {
		if err := f.SetSheetName(def, name); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}
	return &excelizeSheet{f: f, sheet: name}, nil
}

func (s *excelizeSheet) SetColumnWidth(col string, chars float64) error {
	return s.f.SetColWidth(s.sheet, col, col, chars)
}

func (s *excelizeSheet) SetRowHeight(row int, pt float64) error {
	return s.f.SetRowHeight(s.sheet, row, pt)
}

func (s *excelizeSheet) AddPicture(cell, path string, scale float64) error {
	return s.f.AddPicture(s.sheet, cell, path, &excelize.GraphicOptions{
		ScaleX:          scale,
		ScaleY:          scale,
		LockAspectRatio: true,
		Positioning:     "oneCell",
	})
}

func (s *excelizeSheet) SaveAs(path string) error {
	return s.f.SaveAs(path)
}

func (s *excelizeSheet) Close() error {
	return s.f.Close()
}
