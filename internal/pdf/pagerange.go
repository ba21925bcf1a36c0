package pdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/masa1724/pdf2image/internal/ports"
)

// ParsePageRange разбирает "", "3", "1-5", "1,3,5-7" в список 1-based страниц.
// Пустая строка = все страницы. Повторы отбрасываются, порядок сохраняется.
func ParsePageRange(spec string, total int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	var pages []int
	seen := make(map[int]bool)
	add := func(p int) error {
		if p < 1 || p > total {
			return &ports.PageOutOfRangeError{Page: p, Count: total}
		}
		if !seen[p] {
			pages = append(pages, p)
			seen[p] = true
		}
		return nil
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid page number: %q", lo)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page number: %q", hi)
			}
			if start > end {
				return nil, fmt.Errorf("start page %d is after end page %d", start, end)
			}
			for p := start; p <= end; p++ {
				if err := add(p); err != nil {
					return nil, err
				}
			}
			continue
		}

		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %q", part)
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}

	return pages, nil
}
