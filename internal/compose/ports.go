package compose

import (
	"image"
	"io"
)

// Encoder пишет изображение в конкретном формате.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// Naming — как называть файлы последовательности.
// Numbers == nil → 1..n.
type Naming struct {
	Label   string
	Numbers []int
}
