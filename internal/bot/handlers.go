package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"gorm.io/gorm"

	"dancemax/internal/domain"
	"dancemax/internal/modules/schedule"
)

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	log.Printf("[%s] %s", message.From.UserName, message.Text)

	if !message.IsCommand() {
		b.sendOpenApp(message.Chat.ID, "Use the app to browse the schedule and book lessons:")
		return
	}

	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "balance":
		b.handleBalance(message)
	case "schedule":
		b.handleSchedule(message)
	case "help":
		b.handleHelp(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	ctx := context.Background()
	telegramID := int64(message.From.ID)

	user, err := b.users.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &domain.User{
			TelegramID: telegramID,
			FirstName:  message.From.FirstName,
			LastName:   message.From.LastName,
			Username:   message.From.UserName,
		}
		err = b.users.Create(ctx, user)
	}
	if err != nil {
		log.Printf("start for %d failed: %v", telegramID, err)
		b.sendMessage(message.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	text := fmt.Sprintf("Hi, %s! 👋\n\nThis is the DanceMax studio bot. Book lessons, manage your subscription and track your balance right from the app below.", user.FirstName)
	b.sendOpenApp(message.Chat.ID, text)
}

func (b *Bot) handleBalance(message *tgbotapi.Message) {
	ctx := context.Background()

	user, err := b.users.GetByTelegramID(ctx, int64(message.From.ID))
	if err != nil {
		b.sendMessage(message.Chat.ID, "You are not registered yet, send /start first.")
		return
	}

	bal, err := b.profiles.GetBalance(ctx, user.ID)
	if err != nil {
		log.Printf("balance for %d failed: %v", user.ID, err)
		b.sendMessage(message.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	text := fmt.Sprintf("💳 Your balance: %d lesson(s)\n📌 Active bookings: %d\n📜 Active subscriptions: %d",
		bal.Balance, bal.ActiveBookings, bal.ActiveSubscriptions)
	b.sendMessage(message.Chat.ID, text)
}

func (b *Bot) handleSchedule(message *tgbotapi.Message) {
	ctx := context.Background()
	today := time.Now().UTC().Format("2006-01-02")

	var userID int64
	if user, err := b.users.GetByTelegramID(ctx, int64(message.From.ID)); err == nil {
		userID = user.ID
	}

	lessons, err := b.schedule.ListLessons(ctx, userID, schedule.ListOptions{Date: today})
	if err != nil {
		log.Printf("schedule for %s failed: %v", today, err)
		b.sendMessage(message.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	if len(lessons) == 0 {
		b.sendOpenApp(message.Chat.ID, "No lessons today. Check the full schedule in the app:")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 Today, %s:\n\n", time.Now().UTC().Format("02.01.2006")))
	for _, l := range lessons {
		sb.WriteString(formatLessonLine(l))
		sb.WriteString("\n")
	}
	b.sendOpenApp(message.Chat.ID, sb.String())
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	text := "Commands:\n" +
		"/start - register and open the app\n" +
		"/balance - lesson credits and active bookings\n" +
		"/schedule - today's lessons\n" +
		"/help - this message"
	b.sendMessage(message.Chat.ID, text)
}

// sendOpenApp attaches a URL button that launches the mini app.
func (b *Bot) sendOpenApp(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💃 Open DanceMax", b.webAppURL),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send to %d failed: %v", chatID, err)
	}
}

func formatLessonLine(l *schedule.LessonResponse) string {
	name := "Lesson"
	if l.Direction != nil {
		name = l.Direction.Name
	}
	line := fmt.Sprintf("%s-%s  %s", l.StartTime, l.EndTime, name)
	if l.Teacher != nil {
		line += fmt.Sprintf(" (%s)", l.Teacher.Name)
	}
	if l.IsCancelled {
		line += " ❌ cancelled"
	} else if l.SpotsLeft == 0 {
		line += " 🔒 full"
	} else if l.IsBooked {
		line += " ✅ booked"
	}
	return line
}
