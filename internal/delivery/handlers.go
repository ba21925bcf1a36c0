package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/masa1724/pdf2image/internal/compose"
	"github.com/masa1724/pdf2image/internal/pdf"
	"github.com/masa1724/pdf2image/internal/ports"
)

const maxUploadBytes = 64 << 20

type Defaults struct {
	DPI      int
	FitWidth int

	// 0 — без ограничения
	MaxDPI      int
	MaxFitWidth int
}

type ConvertHandler struct {
	svc       ports.ConversionService
	outputDir string
	defaults  Defaults
	log       *logger.ZapLogger
}

func NewConvertHandler(svc ports.ConversionService, outputDir string, d Defaults, log *logger.ZapLogger) *ConvertHandler {
	return &ConvertHandler{
		svc:       svc,
		outputDir: outputDir,
		defaults:  d,
		log:       log,
	}
}

type artifactResponse struct {
	ports.Artifact
	Download string `json:"download"`
}

type convertResponse struct {
	JobID     string             `json:"job_id"`
	Mode      ports.Mode         `json:"mode"`
	Pages     []int              `json:"pages"`
	Artifacts []artifactResponse `json:"artifacts"`
}

// POST /convert
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err})
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	// 1. каталог задачи + исходник
	jobID := uuid.NewString()
	dir := filepath.Join(h.outputDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "mkdir job dir", Error: err})
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	srcName := filepath.Base(header.Filename)
	if srcName == "." || srcName == string(filepath.Separator) || srcName == "" {
		srcName = "source.pdf"
	}
	src := filepath.Join(dir, "src_"+srcName)
	if err := saveUpload(file, src); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "save upload", Error: err})
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	// 2. параметры
	req, err := h.parseRequest(r, src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.JobID = jobID

	total, err := h.svc.PageCount(r.Context(), src)
	if err != nil {
		h.writeError(w, err)
		return
	}
	req.Pages, err = pdf.ParsePageRange(r.FormValue("pages"), total)
	if err != nil {
		h.writeError(w, err)
		return
	}

	stem := strings.TrimSuffix(srcName, filepath.Ext(srcName))
	req.OutputPath = filepath.Join(dir, stem+outputExt(req.Mode, r.FormValue("format")))
	if req.Mode == ports.ModeWorkbook {
		req.StagingDir = filepath.Join(dir, "staging")
	}

	// 3. конвертация
	res, err := h.svc.Convert(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := convertResponse{JobID: res.JobID, Mode: res.Mode, Pages: res.Pages}
	for _, a := range res.Artifacts {
		out.Artifacts = append(out.Artifacts, artifactResponse{
			Artifact: a,
			Download: fmt.Sprintf("/files/%s/%s", jobID, a.Name),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// GET /files/{job_id}/{name}
func (h *ConvertHandler) Download(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	name := chi.URLParam(r, "name")
	if _, err := uuid.Parse(jobID); err != nil {
		http.Error(w, "invalid job_id", http.StatusBadRequest)
		return
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, "src_") {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}

	p := filepath.Join(h.outputDir, jobID, name)
	if st, err := os.Stat(p); err != nil || st.IsDir() {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, p)
}

func (h *ConvertHandler) parseRequest(r *http.Request, src string) (ports.ConvertRequest, error) {
	req := ports.ConvertRequest{
		SourcePath: src,
		Mode:       ports.Mode(r.FormValue("mode")),
		SheetName:  r.FormValue("sheet_name"),
		Label:      r.FormValue("label"),
	}
	if req.Mode == "" {
		req.Mode = ports.ModeSingle
	}

	extraRows := 0
	if req.Mode == ports.ModeWorkbook {
		extraRows = ports.DefaultExtraRows
	}

	ints := []struct {
		field string
		dst   *int
		def   int
	}{
		{"dpi", &req.DPI, h.defaults.DPI},
		{"trim_top", &req.TrimTop, 0},
		{"trim_bottom", &req.TrimBottom, 0},
		{"fit_width", &req.FitWidth, h.defaults.FitWidth},
		{"gap_rows", &req.GapRows, 0},
		{"extra_rows", &req.ExtraRows, extraRows},
	}
	for _, f := range ints {
		v := r.FormValue(f.field)
		if v == "" {
			*f.dst = f.def
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid %s: %q", f.field, v)
		}
		*f.dst = n
	}

	if h.defaults.MaxDPI > 0 && req.DPI > h.defaults.MaxDPI {
		return req, fmt.Errorf("dpi %d exceeds limit %d", req.DPI, h.defaults.MaxDPI)
	}
	if h.defaults.MaxFitWidth > 0 && req.FitWidth > h.defaults.MaxFitWidth {
		return req, fmt.Errorf("fit_width %d exceeds limit %d", req.FitWidth, h.defaults.MaxFitWidth)
	}

	if format := r.FormValue("format"); format != "" && req.Mode != ports.ModeWorkbook {
		if !compose.SupportedExtension("." + format) {
			return req, fmt.Errorf("unsupported format %q", format)
		}
	}

	return req, req.Normalized().ValidateParams()
}

func outputExt(mode ports.Mode, format string) string {
	if mode == ports.ModeWorkbook {
		return ".xlsx"
	}
	if format == "" {
		return ".png"
	}
	return "." + strings.ToLower(format)
}

func saveUpload(r io.Reader, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeError переводит ошибки конвейера в HTTP-коды.
func (h *ConvertHandler) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	level := "warn"
	if status >= 500 {
		level = "error"
	}
	h.log.Log(logger.LogEntry{Level: level, Message: "conversion failed", Error: err})
	http.Error(w, err.Error(), status)
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, ports.ErrEmptyInput), errors.Is(err, ports.ErrPageOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrSourceUnreadable), errors.Is(err, ports.ErrImageReadFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrWriteFailure):
		return http.StatusInternalServerError
	}
	// остальное — ошибки валидации запроса
	return http.StatusBadRequest
}
