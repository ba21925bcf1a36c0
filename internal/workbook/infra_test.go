package workbook

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/masa1724/pdf2image/internal/ports"
)

func TestBuild_Excelize(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "p_1.png", 400, 100), // 1000x250 → 10 rows
		writePNG(t, dir, "p_2.png", 500, 500), // 1000x1000 → 41 rows
	}
	dst := filepath.Join(dir, "book.xlsx")

	s := NewService(NewExcelizeSheet, nil)
	rep, err := s.Build(context.Background(), paths, dst, Options{SheetName: "Scan", FitWidth: 1000})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.Placements[1].Row != 11 {
		t.Errorf("second image row = %d, want 11", rep.Placements[1].Row)
	}

	f, err := excelize.OpenFile(dst)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Scan" {
		t.Fatalf("sheets = %v, want [Scan]", got)
	}

	w, err := f.GetColWidth("Scan", "A")
	if err != nil {
		t.Fatal(err)
	}
	if w != 140 {
		t.Errorf("column width = %v, want 140", w)
	}

	h, err := f.GetRowHeight("Scan", 5)
	if err != nil {
		t.Fatal(err)
	}
	if h != 18 {
		t.Errorf("row 5 height = %v, want 18", h)
	}

	for _, cell := range []string{"A1", "A11"} {
		pics, err := f.GetPictures("Scan", cell)
		if err != nil {
			t.Fatalf("GetPictures(%s): %v", cell, err)
		}
		if len(pics) != 1 {
			t.Errorf("%s: %d pictures, want 1", cell, len(pics))
		}
	}
}

func TestBuild_ExcelizeBadExtension(t *testing.T) {
	dir := t.TempDir()
	s := NewService(NewExcelizeSheet, nil)

	_, err := s.Build(context.Background(), []string{writePNG(t, dir, "x.png", 10, 10)}, filepath.Join(dir, "book.txt"), Options{})
	if !errors.Is(err, ports.ErrWriteFailure) {
		t.Errorf("err = %v, want ErrWriteFailure", err)
	}
}
