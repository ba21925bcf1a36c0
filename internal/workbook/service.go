package workbook

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/masa1724/pdf2image/internal/ports"
)

type Service struct {
	newSheet NewSheetFunc
	log      *zap.Logger
}

func NewService(newSheet NewSheetFunc, log *zap.Logger) *Service {
	if newSheet == nil {
		newSheet = NewExcelizeSheet
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{newSheet: newSheet, log: log.Named("workbook")}
}

// Build кладёт картинки paths в колонку A книги dst, одну под другой.
func (s *Service) Build(ctx context.Context, paths []string, dst string, opts Options) (*Report, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no images for workbook", ports.ErrEmptyInput)
	}
	if opts.SheetName == "" {
		opts.SheetName = ports.DefaultSheetName
	}
	if opts.FitWidth <= 0 {
		opts.FitWidth = ports.DefaultFitWidth
	}

	// 1. размеры исходников (файлы сразу закрываем)
	sizes := make([]image.Point, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sz, err := imageSize(p)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, sz)
	}

	layout := Layout{
		FitWidth:  opts.FitWidth,
		GapRows:   max(0, opts.GapRows),
		ExtraRows: max(0, opts.ExtraRows),
	}
	placements, next := layout.Place(sizes)

	// 2. книга
	sheet, err := s.newSheet(opts.SheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrWriteFailure, err)
	}
	defer sheet.Close()

	if err := sheet.SetColumnWidth(Column, float64(ColumnWidth(opts.FitWidth))); err != nil {
		return nil, fmt.Errorf("%w: column width: %v", ports.ErrWriteFailure, err)
	}

	// 3. высота только у реально занятых строк
	for row := 1; row < next; row++ {
		if err := sheet.SetRowHeight(row, RowHeightPt); err != nil {
			return nil, fmt.Errorf("%w: row %d height: %v", ports.ErrWriteFailure, row, err)
		}
	}

	// 4. картинки
	for i, pl := range placements {
		cell := fmt.Sprintf("%s%d", Column, pl.Row)
		if err := sheet.AddPicture(cell, paths[i], pl.Scale); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ports.ErrImageReadFailure, paths[i], err)
		}
	}

	// 5. сохраняем
	if err := sheet.SaveAs(dst); err != nil {
		return nil, fmt.Errorf("%w: save %s: %v", ports.ErrWriteFailure, dst, err)
	}

	s.log.Info("workbook written",
		zap.String("path", dst),
		zap.String("sheet", opts.SheetName),
		zap.Int("images", len(placements)),
		zap.Int("rows", next-1),
	)

	return &Report{Placements: placements, NextRow: next}, nil
}

func imageSize(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %v", ports.ErrImageReadFailure, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %s: %v", ports.ErrImageReadFailure, path, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}
