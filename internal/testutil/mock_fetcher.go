//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/aoch-leaderboard/internal/leaderboard"
)

// MockFetcher 数据源 mock
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context) (*leaderboard.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leaderboard.Snapshot), args.Error(1)
}

// StaticFetcher 固定返回同一快照或错误
type StaticFetcher struct {
	Snapshot *leaderboard.Snapshot
	Err      error
}

func (f StaticFetcher) Fetch(ctx context.Context) (*leaderboard.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.Snapshot, f.Err
}

// SampleSnapshot 测试共用的两项快照
func SampleSnapshot() *leaderboard.Snapshot {
	ts := leaderboard.StringPtr("2023-12-03T05:10:00Z")
	var aliceStars, anonStars leaderboard.DailyStars
	aliceStars[0], aliceStars[1], aliceStars[2] = 2, 2, 2
	anonStars[0], anonStars[1] = 2, 2

	return &leaderboard.Snapshot{
		Assignment: "Day 3",
		Today: []leaderboard.DailyEntry{
			{Name: leaderboard.StringPtr("Alice"), Score: 120, Star1: ts, Star2: ts},
			{Name: nil, Score: 80, Star1: ts},
		},
		Total: []leaderboard.CumulativeEntry{
			{Name: leaderboard.StringPtr("Alice"), Score: 300, Stars: aliceStars},
			{Name: nil, Score: 42, Stars: anonStars},
		},
	}
}
