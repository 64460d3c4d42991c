package services

import (
	"encoding/json"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"etugal/internal/models"
)

// Notifier is the push-notification collaborator. Delivery is best-effort:
// implementations log failures and never propagate them to the caller of the
// triggering operation.
type Notifier interface {
	Push(profile *models.UserProfile, title, body string, data map[string]string)
}

// telegramNotifier delivers pushes to users who linked a Telegram chat.
type telegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(botToken string) Notifier {
	if botToken == "" {
		return &telegramNotifier{}
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[notify][init][err] telegram bot unavailable: %v", err)
		return &telegramNotifier{}
	}
	return &telegramNotifier{bot: bot}
}

func (n *telegramNotifier) Push(profile *models.UserProfile, title, body string, data map[string]string) {
	if n.bot == nil || profile == nil || profile.TelegramChatID == 0 {
		log.Printf("[notify][skip] bot=%v chatID=%d", n.bot != nil, chatIDOf(profile))
		return
	}
	text := "<b>" + title + "</b>\n" + body
	if len(data) > 0 {
		if extra, err := json.Marshal(data); err == nil {
			log.Printf("[notify][data] chatID=%d payload=%s", profile.TelegramChatID, extra)
		}
	}
	msg := tgbotapi.NewMessage(profile.TelegramChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("[notify][send][err] chatID=%d: %v", profile.TelegramChatID, err)
	}
}

func chatIDOf(p *models.UserProfile) int64 {
	if p == nil {
		return 0
	}
	return p.TelegramChatID
}
