package schedule

import "errors"

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrBadDate        = errors.New("invalid date format")
)
