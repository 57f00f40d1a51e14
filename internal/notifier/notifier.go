package notifier

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"dancemax/internal/domain"
)

// TelegramNotifier pushes booking events to students through the bot.
// Send failures are logged and dropped; a blocked bot must never fail
// a booking.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api}
}

func (n *TelegramNotifier) BookingCreated(_ context.Context, telegramID int64, lesson *domain.Lesson) {
	n.send(telegramID, fmt.Sprintf("✅ You are booked!\n\n%s", describeLesson(lesson)))
}

func (n *TelegramNotifier) BookingCancelled(_ context.Context, telegramID int64, lesson *domain.Lesson) {
	n.send(telegramID, fmt.Sprintf("↩️ Booking cancelled, the lesson credit is back on your balance.\n\n%s", describeLesson(lesson)))
}

func (n *TelegramNotifier) LessonCancelled(_ context.Context, telegramID int64, lesson *domain.Lesson, reason string) {
	text := fmt.Sprintf("❌ Your lesson was cancelled, the credit has been refunded.\n\n%s", describeLesson(lesson))
	if reason != "" {
		text += fmt.Sprintf("\nReason: %s", reason)
	}
	n.send(telegramID, text)
}

// SendText delivers a broadcast message and reports the failure to the
// caller so it can count undelivered recipients.
func (n *TelegramNotifier) SendText(_ context.Context, telegramID int64, text string) error {
	msg := tgbotapi.NewMessage(telegramID, text)
	_, err := n.api.Send(msg)
	return err
}

func (n *TelegramNotifier) send(telegramID int64, text string) {
	msg := tgbotapi.NewMessage(telegramID, text)
	if _, err := n.api.Send(msg); err != nil {
		log.Printf("notify %d failed: %v", telegramID, err)
	}
}

func describeLesson(lesson *domain.Lesson) string {
	if lesson == nil {
		return ""
	}
	text := fmt.Sprintf("📅 %s  %s-%s", lesson.Date.Format("02.01.2006"), lesson.StartTime, lesson.EndTime)
	if lesson.Direction != nil {
		text += fmt.Sprintf("\n💃 %s", lesson.Direction.Name)
	}
	if lesson.Teacher != nil {
		text += fmt.Sprintf("\n🎓 %s", lesson.Teacher.Name)
	}
	if lesson.Room != "" {
		text += fmt.Sprintf("\n📍 %s", lesson.Room)
	}
	return text
}
