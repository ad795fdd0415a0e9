// Package bot 在 Telegram 会话中提供排行榜命令
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/palemoky/aoch-leaderboard/internal/logger"
	"github.com/palemoky/aoch-leaderboard/internal/render"
	"github.com/palemoky/aoch-leaderboard/internal/service"
	"github.com/palemoky/aoch-leaderboard/internal/sink"
)

const helpText = "Advent of Code leaderboard bot\n\n" +
	"/leaderboard_today - today's ranking\n" +
	"/leaderboard_total - overall ranking"

// UpdateSource 更新循环用到的 *tgbotapi.BotAPI 方法
type UpdateSource interface {
	sink.MessageSender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot 把聊天命令分发给排行榜服务
type Bot struct {
	api UpdateSource
	svc service.Renderer
}

// New 用 token 创建机器人
func New(token string, svc service.Renderer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	logger.LogInfo("Authorized on Telegram account %s", api.Self.UserName)
	return NewWithAPI(api, svc), nil
}

// NewWithAPI 使用已有的 API 客户端创建机器人
func NewWithAPI(api UpdateSource, svc service.Renderer) *Bot {
	return &Bot{api: api, svc: svc}
}

// Run 长轮询获取更新，直到 ctx 取消
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	logger.LogInfo("Telegram bot started")
	for {
		select {
		case <-ctx.Done():
			logger.LogInfo("Telegram bot stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.HandleCommand(ctx, update.Message)
		}
	}
}

// HandleCommand 处理一条命令消息
func (b *Bot) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	out := sink.NewTelegram(b.api, chatID)

	switch msg.Command() {
	case "start", "help":
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, helpText)); err != nil {
			logger.LogError("send help to %d: %v", chatID, err)
		}
	case "leaderboard_today", "leaderboard_total":
		mode, err := render.ParseMode(msg.Command())
		if err != nil {
			return
		}
		if err := b.svc.Publish(ctx, mode, out); err != nil {
			logger.LogError("command /%s in chat %d: %v", msg.Command(), chatID, err)
		}
	default:
		logger.LogDebug("ignoring command /%s", msg.Command())
	}
}
