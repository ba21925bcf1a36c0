package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/masa1724/pdf2image/internal/compose"
	"github.com/masa1724/pdf2image/internal/domain"
	"github.com/masa1724/pdf2image/internal/error_notificator"
	"github.com/masa1724/pdf2image/internal/infra"
	"github.com/masa1724/pdf2image/internal/pdf"
	"github.com/masa1724/pdf2image/internal/ports"
	"github.com/masa1724/pdf2image/internal/workbook"
)

type options struct {
	req      ports.ConvertRequest
	pages    string
	renderer string
	verbose  bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "pdf2image: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if opts.verbose {
		log, _ = zap.NewDevelopment()
		defer log.Sync()
	}

	svc := domain.NewConversionService(
		pdf.NewService(pdf.NewOpener(pdf.RendererType(opts.renderer)), log),
		compose.NewService(log),
		workbook.NewService(workbook.NewExcelizeSheet, log),
		infra.NewMemJobRepo(),
		domain.NewNopStore(),
		error_notificator.Nop{},
		log,
	)

	// 1. страницы
	total, err := svc.PageCount(ctx, opts.req.SourcePath)
	if err != nil {
		return err
	}
	opts.req.Pages, err = pdf.ParsePageRange(opts.pages, total)
	if err != nil {
		return err
	}

	// 2. конвертация
	res, err := svc.Convert(ctx, opts.req)
	if err != nil {
		return err
	}
	for _, a := range res.Artifacts {
		fmt.Fprintln(stdout, a.Path)
	}
	return nil
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pdf2image", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		o    options
		mode string
	)
	fs.StringVar(&o.req.SourcePath, "in", "", "input PDF (required)")
	fs.StringVar(&o.req.OutputPath, "out", "", "output path (default: next to the PDF)")
	fs.StringVar(&o.pages, "pages", "", `pages, e.g. "1-3,5" (default: all)`)
	fs.StringVar(&mode, "mode", string(ports.ModeSingle), "single | sequence | workbook")
	fs.IntVar(&o.req.DPI, "dpi", ports.DefaultDPI, "rendering resolution")
	fs.IntVar(&o.req.TrimTop, "trim-top", 0, "pixels to cut from the top of each page")
	fs.IntVar(&o.req.TrimBottom, "trim-bottom", 0, "pixels to cut from the bottom of each page")
	fs.IntVar(&o.req.FitWidth, "fit-width", ports.DefaultFitWidth, "workbook: image width in pixels")
	fs.IntVar(&o.req.GapRows, "gap-rows", 0, "workbook: empty rows between images")
	fs.IntVar(&o.req.ExtraRows, "extra-rows", ports.DefaultExtraRows, "workbook: rows added to each image's span")
	fs.StringVar(&o.req.SheetName, "sheet", ports.DefaultSheetName, "workbook: sheet name")
	fs.StringVar(&o.req.Label, "label", ports.DefaultSequenceLabel, "sequence/workbook: file name label")
	fs.StringVar(&o.renderer, "renderer", string(pdf.RendererFitz), "fitz | poppler")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.req.SourcePath == "" {
		fs.Usage()
		return nil, fmt.Errorf("-in is required")
	}
	switch pdf.RendererType(o.renderer) {
	case pdf.RendererFitz, pdf.RendererPoppler:
	default:
		return nil, fmt.Errorf("unknown renderer %q", o.renderer)
	}

	o.req.Mode = ports.Mode(mode)
	if o.req.OutputPath == "" {
		o.req.OutputPath = defaultOutput(o.req.SourcePath, o.req.Mode)
	}
	if err := o.req.Normalized().ValidateParams(); err != nil {
		return nil, err
	}
	return &o, nil
}

// defaultOutput — рядом с PDF, с тем же именем.
func defaultOutput(src string, mode ports.Mode) string {
	ext := ".png"
	if mode == ports.ModeWorkbook {
		ext = ".xlsx"
	}
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(filepath.Dir(src), stem+ext)
}
