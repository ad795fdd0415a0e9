// Package sink 把渲染好的排行榜送到展示的地方
package sink

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/palemoky/aoch-leaderboard/internal/render"
)

// Sink 接收一段渲染完成的文本
type Sink interface {
	Display(ctx context.Context, text string) error
}

// Func 函数适配为 Sink
type Func func(ctx context.Context, text string) error

func (f Func) Display(ctx context.Context, text string) error { return f(ctx, text) }

// checkLength 拒绝一条消息放不下的文本
func checkLength(text string) error {
	if n := utf8.RuneCountInString(text); n > render.MessageLimit {
		return fmt.Errorf("sink: message is %d code points, limit is %d", n, render.MessageLimit)
	}
	return nil
}

// Multi 同一段文本发往多个输出，返回第一个错误
type Multi []Sink

func (m Multi) Display(ctx context.Context, text string) error {
	var firstErr error
	for _, s := range m {
		if err := s.Display(ctx, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
