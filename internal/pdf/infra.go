package pdf

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type RendererType string

const (
	// RendererFitz — MuPDF через cgo
	RendererFitz RendererType = "fitz"
	// RendererPoppler — внешний pdftoppm
	RendererPoppler RendererType = "poppler"
)

// NewOpener выбирает бэкенд рендеринга. По умолчанию fitz.
func NewOpener(t RendererType) Opener {
	switch t {
	case RendererPoppler:
		return NewPopplerOpener()
	default:
		return NewFitzOpener()
	}
}

// =========================================================================
// FITZ
// =========================================================================

type FitzOpener struct{}

func NewFitzOpener() *FitzOpener {
	return &FitzOpener{}
}

func (o *FitzOpener) Open(_ context.Context, path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) RenderPage(_ context.Context, index int, dpi int) (image.Image, error) {
	img, err := d.doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("fitz render page %d: %w", index+1, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

// =========================================================================
// POPPLER
// =========================================================================

type PopplerOpener struct {
	Bin string
}

func NewPopplerOpener() *PopplerOpener {
	return &PopplerOpener{Bin: "pdftoppm"}
}

func (o *PopplerOpener) Open(_ context.Context, path string) (Document, error) {
	// pdftoppm сам число страниц не отдаёт — берём через pdfcpu
	n, err := api.PageCountFile(path)
	if err != nil {
		return nil, err
	}

	// уникальный temp-dir на документ
	tmpDir, err := os.MkdirTemp("", "pdfconv-*")
	if err != nil {
		return nil, err
	}

	return &popplerDocument{
		bin:    o.Bin,
		input:  path,
		pages:  n,
		tmpDir: tmpDir,
	}, nil
}

type popplerDocument struct {
	bin    string
	input  string
	pages  int
	tmpDir string
}

func (d *popplerDocument) PageCount() int {
	return d.pages
}

func (d *popplerDocument) RenderPage(ctx context.Context, index int, dpi int) (image.Image, error) {
	page := strconv.Itoa(index + 1)
	outBase := filepath.Join(d.tmpDir, "page-"+page)

	// 1. рендерим одну страницу
	cmd := exec.CommandContext(
		ctx,
		d.bin,
		"-r", strconv.Itoa(dpi),
		"-f", page,
		"-l", page,
		"-png",
		"-singlefile",
		d.input,
		outBase,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %s: %w: %s", page, err, out)
	}

	// 2. читаем page-N.png и сразу удаляем
	fn := outBase + ".png"
	defer os.Remove(fn)

	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode pdftoppm output: %w", err)
	}
	return img, nil
}

func (d *popplerDocument) Close() error {
	return os.RemoveAll(d.tmpDir)
}
