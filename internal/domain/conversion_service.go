package domain

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masa1724/pdf2image/internal/compose"
	"github.com/masa1724/pdf2image/internal/error_notificator"
	"github.com/masa1724/pdf2image/internal/pdf"
	"github.com/masa1724/pdf2image/internal/ports"
	"github.com/masa1724/pdf2image/internal/workbook"
)

type conversionService struct {
	pdf      *pdf.Service
	composer *compose.Service
	book     *workbook.Service
	jobs     ports.JobRepo
	store    ports.ArtifactStore
	notifier error_notificator.Notificator
	log      *zap.Logger
	newID    func() string
}

func NewConversionService(
	rasterizer *pdf.Service,
	composer *compose.Service,
	book *workbook.Service,
	jobs ports.JobRepo,
	store ports.ArtifactStore,
	notifier error_notificator.Notificator,
	log *zap.Logger,
) ports.ConversionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &conversionService{
		pdf:      rasterizer,
		composer: composer,
		book:     book,
		jobs:     jobs,
		store:    store,
		notifier: notifier,
		log:      log.Named("conversion"),
		newID:    uuid.NewString,
	}
}

func (s *conversionService) PageCount(ctx context.Context, path string) (int, error) {
	return s.pdf.PageCount(ctx, path)
}

// Convert — PDF → картинки → (склейка | набор файлов | книга).
func (s *conversionService) Convert(ctx context.Context, req ports.ConvertRequest) (*ports.ConvertResult, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = s.newID()
	}
	log := s.log.With(zap.String("job", jobID), zap.String("mode", string(req.Mode)))
	started := time.Now()

	// 1. запись о задаче
	job := &ports.Job{
		ID:         jobID,
		SourceName: filepath.Base(req.SourcePath),
		Mode:       req.Mode,
		Pages:      toInt64(req.Pages),
		DPI:        req.DPI,
		Status:     ports.JobRunning,
		CreatedAt:  started,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		log.Warn("job record not created", zap.Error(err))
	}

	files, err := s.run(ctx, req, log)
	if err != nil {
		s.fail(ctx, jobID, err, req, log)
		return nil, err
	}

	// 2. артефакты: размеры + загрузка
	res := &ports.ConvertResult{
		JobID: jobID,
		Mode:  req.Mode,
		Pages: req.Pages,
	}
	for _, f := range files {
		a := ports.Artifact{Path: f, Name: filepath.Base(f)}
		if st, err := os.Stat(f); err == nil {
			a.Size = st.Size()
		}

		url, err := s.store.SaveArtifact(ctx, jobID, f)
		if err != nil {
			// локальный файл уже есть — загрузка не критична
			log.Warn("artifact upload failed", zap.String("file", a.Name), zap.Error(err))
		}
		a.URL = url

		log.Info("artifact ready",
			zap.String("file", a.Name),
			zap.String("size", humanize.Bytes(uint64(a.Size))),
			zap.String("url", url),
		)
		res.Artifacts = append(res.Artifacts, a)
	}

	if err := s.jobs.Finish(ctx, jobID, ports.JobDone, files, nil); err != nil {
		log.Warn("job record not finished", zap.Error(err))
	}

	log.Info("conversion done",
		zap.Int("pages", len(req.Pages)),
		zap.Int("artifacts", len(res.Artifacts)),
		zap.Duration("took", time.Since(started)),
	)
	return res, nil
}

func (s *conversionService) run(ctx context.Context, req ports.ConvertRequest, log *zap.Logger) ([]string, error) {
	trim := pdf.Trim{Top: req.TrimTop, Bottom: req.TrimBottom}

	rendered, err := s.pdf.Rasterize(ctx, req.SourcePath, req.Pages, req.DPI, trim)
	if err != nil {
		return nil, err
	}
	imgs := make([]image.Image, len(rendered))
	for i, img := range rendered {
		imgs[i] = img
	}

	switch req.Mode {
	case ports.ModeSingle:
		if err := s.composer.WriteSingle(imgs, req.OutputPath); err != nil {
			return nil, err
		}
		return []string{req.OutputPath}, nil

	case ports.ModeSequence:
		return s.composer.WriteSequence(imgs, req.OutputPath, compose.Naming{
			Label:   req.Label,
			Numbers: fileNumbers(req.Pages),
		})

	case ports.ModeWorkbook:
		// старые картинки не должны попасть в новую книгу
		s.composer.ClearDir(req.StagingDir)

		stem := trimExt(filepath.Base(req.OutputPath))
		staged, err := s.composer.WriteSequence(imgs, filepath.Join(req.StagingDir, stem+".png"), compose.Naming{
			Label:   req.Label,
			Numbers: fileNumbers(req.Pages),
		})
		if err != nil {
			return nil, err
		}
		log.Debug("images staged", zap.String("dir", req.StagingDir), zap.Int("files", len(staged)))

		if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrWriteFailure, err)
		}
		_, err = s.book.Build(ctx, staged, req.OutputPath, workbook.Options{
			SheetName: req.SheetName,
			FitWidth:  req.FitWidth,
			GapRows:   req.GapRows,
			ExtraRows: req.ExtraRows,
		})
		if err != nil {
			return nil, err
		}
		return []string{req.OutputPath}, nil
	}

	return nil, fmt.Errorf("unknown mode %q", req.Mode)
}

func (s *conversionService) fail(ctx context.Context, jobID string, cause error, req ports.ConvertRequest, log *zap.Logger) {
	log.Error("conversion failed", zap.Error(cause))

	msg := cause.Error()
	if err := s.jobs.Finish(ctx, jobID, ports.JobFailed, nil, &msg); err != nil {
		log.Warn("job record not finished", zap.Error(err))
	}

	details := fmt.Sprintf("file=%s pages=%v mode=%s", filepath.Base(req.SourcePath), req.Pages, req.Mode)
	if err := s.notifier.Notify(ctx, jobID, cause, details); err != nil {
		log.Warn("failure notification not sent", zap.Error(err))
	}
}

// fileNumbers — номера страниц для имён файлов; при повторах
// переходим на сквозную нумерацию, иначе имена совпадут.
func fileNumbers(pages []int) []int {
	seen := make(map[int]bool, len(pages))
	for _, p := range pages {
		if seen[p] {
			return nil
		}
		seen[p] = true
	}
	return pages
}

func toInt64(xs []int) []int64 {
	out := make([]int64, len(xs))
	for i, x := range xs {
		out[i] = int64(x)
	}
	return out
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
