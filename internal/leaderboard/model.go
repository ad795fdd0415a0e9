// Package leaderboard 排行榜快照模型及其数据源
package leaderboard

// AnonymousName 数据源未公开名字时的占位名
const AnonymousName = "Anonymous User"

// DaysPerEvent 每届活动的天数
const DaysPerEvent = 25

// DailyStars 一名参与者每天的星数
type DailyStars [DaysPerEvent]int

// Sum 星数合计
func (s DailyStars) Sum() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Snapshot 一次获取的排行榜，两个列表均已由数据源排好名次
type Snapshot struct {
	Assignment string            `json:"assignment"`
	Today      []DailyEntry      `json:"today"`
	Total      []CumulativeEntry `json:"total"`
}

// DailyEntry 今日榜的一项
type DailyEntry struct {
	Name  *string `json:"name"`
	Score int     `json:"score"`
	Star1 *string `json:"star1"`
	Star2 *string `json:"star2"`
}

// CumulativeEntry 总榜的一项
type CumulativeEntry struct {
	Name  *string    `json:"name"`
	Score int        `json:"score"`
	Stars DailyStars `json:"stars"`
}

// DisplayName 名字，缺失时为占位名
func (e DailyEntry) DisplayName() string { return ResolveName(e.Name) }

// HasStar1 是否完成今天第一题
func (e DailyEntry) HasStar1() bool { return e.Star1 != nil }

// HasStar2 是否完成今天第二题
func (e DailyEntry) HasStar2() bool { return e.Star2 != nil }

// DisplayName 名字，缺失时为占位名
func (e CumulativeEntry) DisplayName() string { return ResolveName(e.Name) }

// ResolveName 名字缺失时替换为占位名
func ResolveName(name *string) string {
	if name == nil {
		return AnonymousName
	}
	return *name
}

// StringPtr 构造字符串指针
func StringPtr(s string) *string { return &s }
