package pdf

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/masa1724/pdf2image/internal/ports"
)

type Service struct {
	opener Opener
	log    *zap.Logger
}

func NewService(o Opener, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{opener: o, log: log.Named("pdf")}
}

// PageCount открывает документ только ради числа страниц.
func (s *Service) PageCount(ctx context.Context, path string) (int, error) {
	doc, err := s.open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.PageCount(), nil
}

// Rasterize рендерит страницы pages (1-based) в порядке их перечисления
// и обрезает каждую по trim. Файлы не пишет.
func (s *Service) Rasterize(
	ctx context.Context,
	path string,
	pages []int,
	dpi int,
	trim Trim,
) ([]*image.RGBA, error) {

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages to rasterize", ports.ErrEmptyInput)
	}

	doc, err := s.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	// 1. диапазон проверяем целиком до рендера
	count := doc.PageCount()
	for _, p := range pages {
		if p < 1 || p > count {
			return nil, &ports.PageOutOfRangeError{Page: p, Count: count}
		}
	}

	s.log.Debug("rasterize",
		zap.String("path", path),
		zap.Int("pages", len(pages)),
		zap.Int("dpi", dpi),
		zap.Float64("zoom", Zoom(dpi)),
	)

	// 2. страница за страницей
	out := make([]*image.RGBA, 0, len(pages))
	for _, p := range pages {
		raw, err := doc.RenderPage(ctx, p-1, dpi)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrSourceUnreadable, err)
		}
		img := TrimImage(ToRGB(raw), trim)
		s.log.Debug("page rendered",
			zap.Int("page", p),
			zap.Int("width", img.Bounds().Dx()),
			zap.Int("height", img.Bounds().Dy()),
		)
		out = append(out, img)
	}

	return out, nil
}

func (s *Service) open(ctx context.Context, path string) (Document, error) {
	doc, err := s.opener.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrSourceUnreadable, path, err)
	}
	return doc, nil
}
