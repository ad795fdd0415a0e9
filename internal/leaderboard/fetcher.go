package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/palemoky/aoch-leaderboard/internal/apperrors"
	"github.com/palemoky/aoch-leaderboard/internal/logger"
)

// maxBodySize 响应体读取上限
const maxBodySize = 4 << 20

// Fetcher 获取最新快照
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// HTTPFetcher 从排行榜 JSON 接口获取快照
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher 创建带超时的 HTTP 数据源
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Fetch 发起一次 GET 并解析。网络错误和非 2xx 状态返回 FetchError，
// 格式不符返回 DecodeError
func (f *HTTPFetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, apperrors.NewFetchError(err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewFetchError(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, f.URL))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apperrors.NewFetchError(err)
	}

	snapshot, err := Decode(body)
	if err != nil {
		return nil, err
	}

	logger.LogDebug("fetched leaderboard %q: today=%d total=%d in %s",
		snapshot.Assignment, len(snapshot.Today), len(snapshot.Total), time.Since(start))
	return snapshot, nil
}

// Decode 解析排行榜文档，总榜每项必须恰好有 25 天的星数
func Decode(data []byte) (*Snapshot, error) {
	var raw struct {
		Assignment string       `json:"assignment"`
		Today      []DailyEntry `json:"today"`
		Total      []struct {
			Name  *string `json:"name"`
			Score int     `json:"score"`
			Stars []int   `json:"stars"`
		} `json:"total"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewDecodeError(err)
	}

	snapshot := &Snapshot{
		Assignment: raw.Assignment,
		Today:      raw.Today,
		Total:      make([]CumulativeEntry, 0, len(raw.Total)),
	}
	for i, t := range raw.Total {
		if len(t.Stars) != DaysPerEvent {
			return nil, apperrors.NewDecodeError(
				fmt.Errorf("total[%d]: expected %d star counts, got %d", i, DaysPerEvent, len(t.Stars)))
		}
		entry := CumulativeEntry{Name: t.Name, Score: t.Score}
		copy(entry.Stars[:], t.Stars)
		snapshot.Total = append(snapshot.Total, entry)
	}
	return snapshot, nil
}
