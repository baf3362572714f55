package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"CropInsights/internal/ports"
)

// Telegram rejects messages longer than this many characters.
const maxMessageLen = 4096

// Notifier sends digests to a Telegram chat via bot API.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier authenticates the bot and binds the target chat.
func NewNotifier(botToken, chatID string) (*Notifier, error) {
	return NewNotifierWithEndpoint(botToken, chatID, tgbotapi.APIEndpoint, &http.Client{Timeout: 10 * time.Second})
}

// NewNotifierWithEndpoint is NewNotifier against a custom Bot API endpoint
// format such as "http://host/bot%s/%s".
func NewNotifierWithEndpoint(botToken, chatID, endpoint string, client *http.Client) (*Notifier, error) {
	if botToken == "" || chatID == "" {
		return nil, fmt.Errorf("telegram notifier misconfigured")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram chat id %q: %w", chatID, err)
	}

	api, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	return &Notifier{api: api, chatID: id}, nil
}

// PublishDigest posts the digest as plain text, split on line boundaries
// when it exceeds the message limit.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	for _, part := range splitMessage(digest, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(n.chatID, part)
		msg.DisableWebPagePreview = true
		if _, err := n.api.Send(msg); err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
	}
	return nil
}

func splitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		for len([]rune(line)) > limit {
			runes := []rune(line)
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
		}
		if current.Len() > 0 && len([]rune(current.String()))+1+len([]rune(line)) > limit {
			parts = append(parts, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
