package ports

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

type Mode string

const (
	ModeSingle   Mode = "single"
	ModeSequence Mode = "sequence"
	ModeWorkbook Mode = "workbook"
)

const (
	DefaultDPI           = 200
	DefaultFitWidth      = 1000
	DefaultSheetName     = "Sheet1"
	DefaultSequenceLabel = "page"

	// DefaultExtraRows — строка запаса под каждой картинкой в книге:
	// RowsUsed округляет вниз, без запаса картинка залезает на следующую.
	DefaultExtraRows = 1
)

// ConvertRequest — всё, что нужно для одного прогона.
// Передаётся по значению и не меняется после Normalized().
type ConvertRequest struct {
	JobID      string // пусто → сгенерируется
	SourcePath string
	Pages      []int // 1-based, порядок = порядок вывода
	OutputPath string
	Mode       Mode

	DPI        int
	TrimTop    int
	TrimBottom int

	// workbook
	FitWidth  int
	GapRows   int
	ExtraRows int
	SheetName string

	// sequence / workbook
	Label      string
	StagingDir string
}

// Normalized возвращает копию с заполненными значениями по умолчанию.
func (r ConvertRequest) Normalized() ConvertRequest {
	if r.Mode == "" {
		r.Mode = ModeSingle
	}
	if r.DPI == 0 {
		r.DPI = DefaultDPI
	}
	if r.FitWidth == 0 {
		r.FitWidth = DefaultFitWidth
	}
	if r.SheetName == "" {
		r.SheetName = DefaultSheetName
	}
	if r.Label == "" {
		r.Label = DefaultSequenceLabel
	}
	if r.Mode == ModeWorkbook && r.ExtraRows == 0 {
		r.ExtraRows = DefaultExtraRows
	}
	if r.Mode == ModeWorkbook && r.StagingDir == "" && r.OutputPath != "" {
		stem := strings.TrimSuffix(filepath.Base(r.OutputPath), filepath.Ext(r.OutputPath))
		r.StagingDir = filepath.Join(filepath.Dir(r.OutputPath), stem+"_images")
	}
	r.Pages = append([]int(nil), r.Pages...)
	return r
}

// Validate проверяет запрос до любого файлового I/O.
func (r ConvertRequest) Validate() error {
	if len(r.Pages) == 0 {
		return fmt.Errorf("%w: no pages requested", ErrEmptyInput)
	}
	if r.SourcePath == "" {
		return fmt.Errorf("source path is required")
	}
	if r.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	return r.ValidateParams()
}

// ValidateParams — только числовые параметры и режим, без страниц и путей.
func (r ConvertRequest) ValidateParams() error {
	switch r.Mode {
	case ModeSingle, ModeSequence, ModeWorkbook:
	default:
		return fmt.Errorf("unknown mode %q", r.Mode)
	}
	if r.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", r.DPI)
	}
	if r.TrimTop < 0 || r.TrimBottom < 0 {
		return fmt.Errorf("trim must be >= 0 (top=%d bottom=%d)", r.TrimTop, r.TrimBottom)
	}
	if r.GapRows < 0 || r.ExtraRows < 0 {
		return fmt.Errorf("gap rows must be >= 0 (gap=%d extra=%d)", r.GapRows, r.ExtraRows)
	}
	if r.FitWidth <= 0 {
		return fmt.Errorf("fit width must be positive, got %d", r.FitWidth)
	}
	return nil
}

type Artifact struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url,omitempty"`
}

type ConvertResult struct {
	JobID     string     `json:"job_id"`
	Mode      Mode       `json:"mode"`
	Pages     []int      `json:"pages"`
	Artifacts []Artifact `json:"artifacts"`
}

type ConversionService interface {
	Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error)
	PageCount(ctx context.Context, path string) (int, error)
}
