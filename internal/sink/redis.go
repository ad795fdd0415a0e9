package sink

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis 把渲染结果发布到 pub/sub 频道，供其他聊天转发程序订阅
type Redis struct {
	client  *redis.Client
	channel string
}

// NewRedis 创建发布输出
func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

// Display 发布渲染结果，没有订阅者不算错误
func (r *Redis) Display(ctx context.Context, text string) error {
	if err := checkLength(text); err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, text).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", r.channel, err)
	}
	return nil
}

// Channel 返回频道名
func (r *Redis) Channel() string { return r.channel }
