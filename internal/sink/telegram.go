package sink

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageSender 输出用到的 *tgbotapi.BotAPI 方法
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram 以 Markdown 消息发往一个会话，代码块按等宽显示
type Telegram struct {
	api    MessageSender
	chatID int64
}

// NewTelegram 创建绑定 chatID 的输出
func NewTelegram(api MessageSender, chatID int64) *Telegram {
	return &Telegram{api: api, chatID: chatID}
}

func (t *Telegram) Display(ctx context.Context, text string) error {
	if err := checkLength(text); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", t.chatID, err)
	}
	return nil
}
