// Package service 连接数据源、表格渲染和输出，每次调用渲染一份新获取的快照
package service

import (
	"context"
	"fmt"

	"github.com/palemoky/aoch-leaderboard/internal/apperrors"
	"github.com/palemoky/aoch-leaderboard/internal/leaderboard"
	"github.com/palemoky/aoch-leaderboard/internal/logger"
	"github.com/palemoky/aoch-leaderboard/internal/render"
	"github.com/palemoky/aoch-leaderboard/internal/sink"
)

// Renderer 聊天机器人和网关依赖的接口
type Renderer interface {
	Render(ctx context.Context, mode render.Mode) (string, error)
	Publish(ctx context.Context, mode render.Mode, s sink.Sink) error
}

// LeaderboardService 按需渲染排行榜
type LeaderboardService struct {
	fetcher leaderboard.Fetcher
	mirror  sink.Sink
}

// New 创建服务；mirror 不为 nil 时每次成功的渲染都会同步发送过去
func New(fetcher leaderboard.Fetcher, mirror sink.Sink) *LeaderboardService {
	return &LeaderboardService{fetcher: fetcher, mirror: mirror}
}

// Render 获取最新快照并渲染指定榜单
func (s *LeaderboardService) Render(ctx context.Context, mode render.Mode) (string, error) {
	snapshot, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", mode, err)
	}

	text, err := render.BuildTable(snapshot, mode)
	if err != nil {
		return "", err
	}

	if s.mirror != nil {
		if err := s.mirror.Display(ctx, text); err != nil {
			logger.LogError("mirror %s leaderboard: %v", mode, err)
		}
	}
	return text, nil
}

// RenderDaily 渲染今日榜
func (s *LeaderboardService) RenderDaily(ctx context.Context) (string, error) {
	return s.Render(ctx, render.Daily)
}

// RenderCumulative 渲染总榜
func (s *LeaderboardService) RenderCumulative(ctx context.Context) (string, error) {
	return s.Render(ctx, render.Cumulative)
}

// Publish 渲染后发送到 out；失败时改为发送面向用户的错误提示并返回错误
func (s *LeaderboardService) Publish(ctx context.Context, mode render.Mode, out sink.Sink) error {
	text, err := s.Render(ctx, mode)
	if err != nil {
		logger.LogError("render %s leaderboard: %v", mode, err)
		if sendErr := out.Display(ctx, apperrors.UserMessage(err)); sendErr != nil {
			logger.LogError("send error notice: %v", sendErr)
		}
		return err
	}
	return out.Display(ctx, text)
}
