package notify

import (
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/caphound/caphound/hunt"
)

// sendAttempts bounds delivery retries; notifications are best-effort and
// must not stall the hunt for long.
const sendAttempts = 3

type TelegramConfig struct {
	Logger *slog.Logger `json:"-"`
	Token  string       `json:"-"`
	ChatID int64        `json:"chat-id"`
}

// sender is the slice of the bot API the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers hunt notifications to a Telegram chat. Failures are
// logged and swallowed; the hunt never waits on or branches over delivery.
type Telegram struct {
	bot    sender
	chatID int64
	log    *slog.Logger

	mu        sync.Mutex
	messageID int
}

// Telegram implements hunt.Notifier
var _ hunt.Notifier = (*Telegram)(nil)

func NewTelegram(config TelegramConfig) (*Telegram, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	bot, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &Telegram{bot: bot, chatID: config.ChatID, log: config.Logger}, nil
}

// Send posts text as a new message and remembers it for later edits.
func (t *Telegram) Send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	sent, err := retry(sendAttempts, func() (tgbotapi.Message, error) {
		return t.bot.Send(msg)
	})
	if err != nil {
		t.log.Warn("failed to send telegram message", "error", err)
		return
	}

	t.mu.Lock()
	t.messageID = sent.MessageID
	t.mu.Unlock()
}

// Update edits the most recently sent message in place. Without one to edit
// it falls back to sending a new message.
func (t *Telegram) Update(text string) {
	t.mu.Lock()
	messageID := t.messageID
	t.mu.Unlock()

	if messageID == 0 {
		t.Send(text)
		return
	}

	edit := tgbotapi.NewEditMessageText(t.chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML

	if _, err := retry(sendAttempts, func() (tgbotapi.Message, error) {
		return t.bot.Send(edit)
	}); err != nil {
		t.log.Warn("failed to edit telegram message", "message-id", messageID, "error", err)
	}
}
