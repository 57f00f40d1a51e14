package bot

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// RegisterWebhook exposes the update feed for webhook-mode deployments.
// Telegram retries any non-200 response, so the endpoint acknowledges
// every request and handles the payload asynchronously.
func (b *Bot) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/bot/webhook", b.handleWebhook)
}

func (b *Bot) handleWebhook(c *gin.Context) {
	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&update); err != nil {
		log.Printf("webhook decode failed: %v", err)
		c.Status(http.StatusOK)
		return
	}

	if update.Message != nil {
		go b.handleMessage(update.Message)
	}

	c.Status(http.StatusOK)
}
