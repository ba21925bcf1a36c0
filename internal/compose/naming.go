package compose

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Digits — ширина номера в имени файла: число знаков в n, минимум 1.
func Digits(n int) int {
	if n < 1 {
		return 1
	}
	return len(strconv.Itoa(n))
}

// SequencePath строит {dir}/{stem}_{label}{number}{ext},
// number дополняется нулями до Digits(padTo).
func SequencePath(outPath, label string, number, padTo int) string {
	dir := filepath.Dir(outPath)
	ext := filepath.Ext(outPath)
	stem := strings.TrimSuffix(filepath.Base(outPath), ext)
	name := fmt.Sprintf("%s_%s%0*d%s", stem, label, Digits(padTo), number, ext)
	return filepath.Join(dir, name)
}
