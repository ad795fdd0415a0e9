// Package render 把排行榜快照渲染成能放进一条聊天消息的等宽代码块表格
package render

import (
	"fmt"
	"strings"

	"github.com/palemoky/aoch-leaderboard/internal/apperrors"
	"github.com/palemoky/aoch-leaderboard/internal/leaderboard"
)

const (
	// MessageLimit 单条聊天消息的长度上限（码点）
	MessageLimit = 2000
	// MaxMessageBudget 选取行数时的预算，为代码块标记留出余量
	MaxMessageBudget = 1900
	// MaxBodyUnits 加代码块标记前表格正文的上限
	MaxBodyUnits = 1990
	// MinRowBudget 保证表头和分隔线始终可见
	MinRowBudget = 2

	fence = "```"
)

// Mode 渲染哪一个榜单
type Mode int

const (
	Daily Mode = iota
	Cumulative
)

func (m Mode) String() string {
	switch m {
	case Daily:
		return "daily"
	case Cumulative:
		return "cumulative"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode 解析模式名，支持聊天命令别名
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "today", "leaderboard_today":
		return Daily, nil
	case "cumulative", "total", "leaderboard_total":
		return Cumulative, nil
	default:
		return 0, fmt.Errorf("unknown leaderboard mode %q", s)
	}
}

// layout 两种榜单之间的全部差异
type layout struct {
	names    func(s *leaderboard.Snapshot) []string
	header   func(nameWidth int) string
	rows     func(s *leaderboard.Snapshot, nameWidth int) []string
	rowWidth func(s *leaderboard.Snapshot, nameWidth int) int
}

var layouts = map[Mode]layout{
	Daily: {
		names: func(s *leaderboard.Snapshot) []string {
			names := make([]string, len(s.Today))
			for i, e := range s.Today {
				names[i] = e.DisplayName()
			}
			return names
		},
		header: func(nameWidth int) string {
			return fmt.Sprintf("%-5s | %s | %-5s | %-5s", "Rank", padRight("Name", nameWidth), "Stars", "Score")
		},
		rows: func(s *leaderboard.Snapshot, nameWidth int) []string {
			rows := make([]string, len(s.Today))
			for i, e := range s.Today {
				rows[i] = FormatDailyRow(e, i+1, nameWidth)
			}
			return rows
		},
		rowWidth: func(_ *leaderboard.Snapshot, nameWidth int) int {
			return nameWidth + 24
		},
	},
	Cumulative: {
		names: func(s *leaderboard.Snapshot) []string {
			names := make([]string, len(s.Total))
			for i, e := range s.Total {
				names[i] = e.DisplayName()
			}
			return names
		},
		header: func(nameWidth int) string {
			return fmt.Sprintf("%s | %-5s | %-5s", padRight("Name", nameWidth), "Score", "Stars")
		},
		rows: func(s *leaderboard.Snapshot, nameWidth int) []string {
			rows := make([]string, len(s.Total))
			for i, e := range s.Total {
				rows[i] = FormatCumulativeRow(e, nameWidth)
			}
			return rows
		},
		rowWidth: func(s *leaderboard.Snapshot, nameWidth int) int {
			maxStars := 0
			for _, e := range s.Total {
				maxStars = max(maxStars, e.Stars.Sum())
			}
			return nameWidth + 11 + maxStars
		},
	},
}

// BuildTable 把选定榜单渲染为不超过 MessageLimit 码点的代码块，
// 空榜返回 apperrors.ErrEmptyLeaderboard
func BuildTable(s *leaderboard.Snapshot, mode Mode) (string, error) {
	l, ok := layouts[mode]
	if !ok {
		return "", fmt.Errorf("render: unknown mode %v", mode)
	}
	if s == nil {
		return "", fmt.Errorf("render %s: %w", mode, apperrors.ErrEmptyLeaderboard)
	}

	names := l.names(s)
	if len(names) == 0 {
		return "", fmt.Errorf("render %s: %w", mode, apperrors.ErrEmptyLeaderboard)
	}

	// 在去除 emoji 之前测量，去除后的名字一定放得下
	nameWidth := 0
	for _, name := range names {
		nameWidth = max(nameWidth, DisplayWidth(name))
	}

	rowWidth := l.rowWidth(s, nameWidth)

	lines := make([]string, 0, len(names)+2)
	lines = append(lines, l.header(nameWidth), strings.Repeat("-", rowWidth))
	lines = append(lines, l.rows(s, nameWidth)...)

	budget := RowBudget(rowWidth)
	body := strings.Join(lines[:min(budget, len(lines))], "\n")

	return Fence(body), nil
}

// RowBudget 每行 rowWidth 宽时 MaxMessageBudget 能放下的行数（含表头和分隔线）
func RowBudget(rowWidth int) int {
	if rowWidth <= 0 {
		return MinRowBudget
	}
	return max(MinRowBudget, MaxMessageBudget/rowWidth)
}

// Fence 截断到 MaxBodyUnits 后包上代码块标记
func Fence(body string) string {
	return fence + "\n" + Truncate(body, MaxBodyUnits) + "\n" + fence
}

// RenderDaily 渲染今日榜
func RenderDaily(s *leaderboard.Snapshot) (string, error) {
	return BuildTable(s, Daily)
}

// RenderCumulative 渲染总榜
func RenderCumulative(s *leaderboard.Snapshot) (string, error) {
	return BuildTable(s, Cumulative)
}
