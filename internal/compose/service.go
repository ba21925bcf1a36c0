package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/masa1724/pdf2image/internal/ports"
)

type Service struct {
	log    *zap.Logger
	remove func(string) error
}

func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log.Named("compose"), remove: os.Remove}
}

// Stack склеивает картинки сверху вниз, прижимая к левому краю.
// Ширина холста — максимальная, высота — сумма; фон белый.
func Stack(imgs []image.Image) (*image.RGBA, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", ports.ErrEmptyInput)
	}

	maxW, totalH := 0, 0
	for _, img := range imgs {
		b := img.Bounds()
		maxW = max(maxW, b.Dx())
		totalH += b.Dy()
	}

	canvas := blank(maxW, totalH)

	y := 0
	for _, img := range imgs {
		b := img.Bounds()
		r := image.Rect(0, y, b.Dx(), y+b.Dy())
		draw.Draw(canvas, r, img, b.Min, draw.Over)
		y += b.Dy()
	}

	return canvas, nil
}

// WriteSingle — режим одного длинного изображения.
func (s *Service) WriteSingle(imgs []image.Image, outPath string) error {
	canvas, err := Stack(imgs)
	if err != nil {
		return err
	}

	enc, err := EncoderFor(outPath)
	if err != nil {
		return err
	}

	if err := ensureParent(outPath); err != nil {
		return err
	}
	if err := writeImage(outPath, enc, canvas); err != nil {
		return err
	}

	s.log.Info("single image written",
		zap.String("path", outPath),
		zap.Int("pages", len(imgs)),
		zap.Int("width", canvas.Bounds().Dx()),
		zap.Int("height", canvas.Bounds().Dy()),
	)
	return nil
}

// WriteSequence — режим "одна страница = один файл".
// Возвращает пути в порядке imgs.
func (s *Service) WriteSequence(imgs []image.Image, outPath string, n Naming) ([]string, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("%w: nothing to write", ports.ErrEmptyInput)
	}
	if n.Numbers != nil && len(n.Numbers) != len(imgs) {
		return nil, fmt.Errorf("naming has %d numbers for %d images", len(n.Numbers), len(imgs))
	}

	enc, err := EncoderFor(outPath)
	if err != nil {
		return nil, err
	}
	if err := ensureParent(outPath); err != nil {
		return nil, err
	}

	// ширина номера — по наибольшему из count и номеров страниц
	padTo := len(imgs)
	for _, num := range n.Numbers {
		padTo = max(padTo, num)
	}

	paths := make([]string, 0, len(imgs))
	for i, img := range imgs {
		num := i + 1
		if n.Numbers != nil {
			num = n.Numbers[i]
		}

		// отдельный белый холст под каждую страницу — единая перекодировка в RGB
		b := img.Bounds()
		canvas := blank(b.Dx(), b.Dy())
		draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Over)

		p := SequencePath(outPath, n.Label, num, padTo)
		if err := writeImage(p, enc, canvas); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	s.log.Info("image sequence written",
		zap.String("dir", filepath.Dir(outPath)),
		zap.Int("files", len(paths)),
		zap.Int("digits", Digits(padTo)),
	)
	return paths, nil
}

// ClearDir удаляет файлы из staging-папки перед новым прогоном.
// Ошибки по отдельным файлам только логируются.
func (s *Service) ClearDir(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("staging dir unreadable", zap.String("dir", dir), zap.Error(err))
		}
		return 0
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := s.remove(p); err != nil {
			s.log.Warn("stale file not removed", zap.String("path", p), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info("staging dir cleared", zap.String("dir", dir), zap.Int("removed", removed))
	}
	return removed
}

func blank(w, h int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return canvas
}

func ensureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrWriteFailure, err)
	}
	return nil
}

func writeImage(path string, enc Encoder, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrWriteFailure, err)
	}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%w: encode %s: %v", ports.ErrWriteFailure, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrWriteFailure, err)
	}
	return nil
}
