package workbook

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/masa1724/pdf2image/internal/ports"
)

type picture struct {
	Cell  string
	Path  string
	Scale float64
}

type fakeSheet struct {
	name    string
	colW    map[string]float64
	rowH    map[int]float64
	pics    []picture
	saved   string
	saveErr error
	closed  bool
}

func (s *fakeSheet) SetColumnWidth(col string, chars float64) error {
	s.colW[col] = chars
	return nil
}

func (s *fakeSheet) SetRowHeight(row int, pt float64) error {
	s.rowH[row] = pt
	return nil
}

func (s *fakeSheet) AddPicture(cell, path string, scale float64) error {
	s.pics = append(s.pics, picture{Cell: cell, Path: path, Scale: scale})
	return nil
}

func (s *fakeSheet) SaveAs(path string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = path
	return nil
}

func (s *fakeSheet) Close() error {
	s.closed = true
	return nil
}

func newFake(sheet **fakeSheet) NewSheetFunc {
	return func(name string) (Sheet, error) {
		*sheet = &fakeSheet{name: name, colW: map[string]float64{}, rowH: map[int]float64{}}
		return *sheet, nil
	}
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 0x20, G: 0x40, B: 0x60, A: 0xff})
		}
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBuild_Placement(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "a_1.png", 200, 300), // 1000x1500 → 62 rows
		writePNG(t, dir, "a_2.png", 100, 1),   // 1000x10 → 1 row
	}

	var sheet *fakeSheet
	s := NewService(newFake(&sheet), nil)

	rep, err := s.Build(context.Background(), paths, filepath.Join(dir, "out.xlsx"), Options{
		SheetName: "Pages",
		FitWidth:  1000,
		GapRows:   1,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if sheet.name != "Pages" {
		t.Errorf("sheet name = %q, want Pages", sheet.name)
	}
	if d := cmp.Diff(map[string]float64{"A": 140}, sheet.colW); d != "" {
		t.Errorf("column widths (-want +got):\n%s", d)
	}

	want := []picture{
		{Cell: "A1", Path: paths[0], Scale: 5},
		{Cell: "A64", Path: paths[1], Scale: 10},
	}
	if d := cmp.Diff(want, sheet.pics); d != "" {
		t.Errorf("pictures (-want +got):\n%s", d)
	}

	// 62 + 1 + 1 + 1 = 65 → строки 1..65
	if rep.NextRow != 66 {
		t.Errorf("NextRow = %d, want 66", rep.NextRow)
	}
	if len(sheet.rowH) != 65 {
		t.Errorf("row heights set for %d rows, want 65", len(sheet.rowH))
	}
	for row, h := range sheet.rowH {
		if row < 1 || row >= rep.NextRow || h != 18 {
			t.Errorf("row %d height %v", row, h)
		}
	}
	if sheet.saved == "" || !sheet.closed {
		t.Errorf("saved=%q closed=%v", sheet.saved, sheet.closed)
	}
}

func TestBuild_Defaults(t *testing.T) {
	dir := t.TempDir()
	var sheet *fakeSheet
	s := NewService(newFake(&sheet), nil)

	_, err := s.Build(context.Background(), []string{writePNG(t, dir, "x.png", 10, 10)}, filepath.Join(dir, "o.xlsx"), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sheet.name != ports.DefaultSheetName {
		t.Errorf("sheet = %q, want %q", sheet.name, ports.DefaultSheetName)
	}
	if sheet.pics[0].Scale != 100 {
		t.Errorf("scale = %v, want 100 (fit width %d)", sheet.pics[0].Scale, ports.DefaultFitWidth)
	}
}

func TestBuild_ImageReadFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	var sheet *fakeSheet
	s := NewService(newFake(&sheet), nil)

	for _, p := range []string{bad, filepath.Join(dir, "missing.png")} {
		_, err := s.Build(context.Background(), []string{p}, filepath.Join(dir, "o.xlsx"), Options{})
		if !errors.Is(err, ports.ErrImageReadFailure) {
			t.Errorf("%s: err = %v, want ErrImageReadFailure", filepath.Base(p), err)
		}
	}
	if sheet != nil {
		t.Error("workbook created although images were unreadable")
	}
}

func TestBuild_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	var sheet *fakeSheet
	newSheet := func(name string) (Sheet, error) {
		sheet = &fakeSheet{colW: map[string]float64{}, rowH: map[int]float64{}, saveErr: fmt.Errorf("locked")}
		return sheet, nil
	}
	s := NewService(newSheet, nil)

	_, err := s.Build(context.Background(), []string{writePNG(t, dir, "x.png", 10, 10)}, filepath.Join(dir, "o.xlsx"), Options{})
	if !errors.Is(err, ports.ErrWriteFailure) {
		t.Fatalf("err = %v, want ErrWriteFailure", err)
	}
	if !sheet.closed {
		t.Error("sheet not closed after failure")
	}
}

func TestBuild_Empty(t *testing.T) {
	s := NewService(nil, nil)
	if _, err := s.Build(context.Background(), nil, "o.xlsx", Options{}); !errors.Is(err, ports.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}
