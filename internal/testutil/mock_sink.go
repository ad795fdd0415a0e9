//go:build !production

package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockSink 输出 mock
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Display(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// RecordingSink 记录所有输出
type RecordingSink struct {
	mu       sync.Mutex
	messages []string
}

func (r *RecordingSink) Display(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
	return nil
}

// Messages 返回已输出内容的副本
func (r *RecordingSink) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
