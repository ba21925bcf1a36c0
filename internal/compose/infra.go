package compose

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/masa1724/pdf2image/internal/ports"
)

const JPEGQuality = 95

type EncoderFunc func(w io.Writer, img image.Image) error

func (f EncoderFunc) Encode(w io.Writer, img image.Image) error {
	return f(w, img)
}

var pngEncoder = &png.Encoder{CompressionLevel: png.BestCompression}

var encoders = map[string]Encoder{
	".png": EncoderFunc(pngEncoder.Encode),
	".jpg": EncoderFunc(func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	}),
	".bmp": EncoderFunc(bmp.Encode),
	".tif": EncoderFunc(func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}),
}

func init() {
	encoders[".jpeg"] = encoders[".jpg"]
	encoders[".tiff"] = encoders[".tif"]
}

// EncoderFor выбирает кодек по расширению файла.
func EncoderFor(path string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	enc, ok := encoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image extension %q", ports.ErrWriteFailure, ext)
	}
	return enc, nil
}

// SupportedExtension сообщает, умеем ли мы писать такой формат.
func SupportedExtension(ext string) bool {
	_, ok := encoders[strings.ToLower(ext)]
	return ok
}
