package booking

import (
	"context"

	"dancemax/internal/domain"
)

// Notifier delivers booking-related messages to students outside the
// request path. Implementations must not block on delivery failures.
type Notifier interface {
	BookingCreated(ctx context.Context, telegramID int64, lesson *domain.Lesson)
	BookingCancelled(ctx context.Context, telegramID int64, lesson *domain.Lesson)
	LessonCancelled(ctx context.Context, telegramID int64, lesson *domain.Lesson, reason string)
}

// NopNotifier is used when the bot is not configured.
type NopNotifier struct{}

func (NopNotifier) BookingCreated(context.Context, int64, *domain.Lesson)          {}
func (NopNotifier) BookingCancelled(context.Context, int64, *domain.Lesson)        {}
func (NopNotifier) LessonCancelled(context.Context, int64, *domain.Lesson, string) {}
