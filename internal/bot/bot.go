package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"dancemax/internal/modules/profile"
	"dancemax/internal/modules/schedule"
	"dancemax/internal/repository"
)

// Bot answers student commands in the chat and hands off everything
// heavier to the mini app through URL buttons.
type Bot struct {
	api       *tgbotapi.BotAPI
	webAppURL string

	users    *repository.UserRepository
	profiles *profile.Service
	schedule *schedule.Service
}

func New(api *tgbotapi.BotAPI, webAppURL string, users *repository.UserRepository, profiles *profile.Service, scheduleSvc *schedule.Service) *Bot {
	return &Bot{
		api:       api,
		webAppURL: webAppURL,
		users:     users,
		profiles:  profiles,
		schedule:  scheduleSvc,
	}
}

// Start runs the long-polling loop until the updates channel closes.
func (b *Bot) Start() error {
	log.Printf("bot authorized as @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("get updates: %w", err)
	}

	for update := range updates {
		if update.Message == nil {
			continue
		}
		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send to %d failed: %v", chatID, err)
	}
}
