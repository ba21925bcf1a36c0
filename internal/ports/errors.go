package ports

import (
	"errors"
	"fmt"
)

// Ошибки конвейера. Оборачиваются через fmt.Errorf("%w: ..."),
// проверяются через errors.Is.
var (
	ErrSourceUnreadable = errors.New("source pdf unreadable")
	ErrPageOutOfRange   = errors.New("page out of range")
	ErrEmptyInput       = errors.New("empty input")
	ErrImageReadFailure = errors.New("image read failure")
	ErrWriteFailure     = errors.New("write failure")
)

// PageOutOfRangeError — страница вне [1, Count].
type PageOutOfRangeError struct {
	Page  int
	Count int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("page %d out of range (1-%d)", e.Page, e.Count)
}

func (e *PageOutOfRangeError) Is(target error) bool {
	return target == ErrPageOutOfRange
}
