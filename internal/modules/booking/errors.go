package booking

import "errors"

var (
	ErrLessonNotFound         = errors.New("lesson not found")
	ErrLessonCancelled        = errors.New("lesson is cancelled")
	ErrLessonAlreadyCancelled = errors.New("lesson is already cancelled")
	ErrAlreadyBooked          = errors.New("already booked on this lesson")
	ErrNoSpots                = errors.New("no free spots on this lesson")
	ErrInsufficientBalance    = errors.New("insufficient lesson balance")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrForbidden              = errors.New("booking belongs to another user")
	ErrNotActive              = errors.New("booking is not active")
	ErrNegativeBalance        = errors.New("balance cannot go negative")
	ErrUserNotFound           = errors.New("user not found")
)
