package render

import (
	"fmt"
	"strings"

	"github.com/palemoky/aoch-leaderboard/internal/leaderboard"
)

// StarGlyph 一颗星的字符
const StarGlyph = "*"

// FormatDailyRow 今日榜的一行：名次 | 名字 | 星 | 分数
func FormatDailyRow(e leaderboard.DailyEntry, rank, nameWidth int) string {
	name := StripEmoji(e.DisplayName())
	return fmt.Sprintf("%4d) | %s | %-5s | %5d", rank, padRight(name, nameWidth), dailyStars(e), e.Score)
}

// dailyStars 两格星标，每格对应一道题
func dailyStars(e leaderboard.DailyEntry) string {
	slot := func(solved bool) string {
		if solved {
			return StarGlyph
		}
		return " "
	}
	return slot(e.HasStar1()) + slot(e.HasStar2())
}

// FormatCumulativeRow 总榜的一行：名字 | 分数 | 每颗星一个字符
func FormatCumulativeRow(e leaderboard.CumulativeEntry, nameWidth int) string {
	name := StripEmoji(e.DisplayName())
	return fmt.Sprintf("%s | %5d | %s", padRight(name, nameWidth), e.Score, starRun(e.Stars.Sum()))
}

func starRun(total int) string {
	return strings.Repeat(StarGlyph, max(0, total))
}
