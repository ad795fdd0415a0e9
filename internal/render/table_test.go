package render

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/aoch-leaderboard/internal/apperrors"
	"github.com/palemoky/aoch-leaderboard/internal/leaderboard"
)

func sampleSnapshot() *leaderboard.Snapshot {
	ts := leaderboard.StringPtr("2023-12-03T05:10:00Z")
	return &leaderboard.Snapshot{
		Assignment: "Day 3",
		Today: []leaderboard.DailyEntry{
			{Name: leaderboard.StringPtr("Alice"), Score: 120, Star1: ts, Star2: ts},
			{Name: nil, Score: 80, Star1: ts},
		},
		Total: []leaderboard.CumulativeEntry{
			{Name: leaderboard.StringPtr("Alice"), Score: 300, Stars: starsOf(2, 2, 2)},
			{Name: nil, Score: 42, Stars: starsOf(2, 2)},
		},
	}
}

func TestBuildTable_Daily(t *testing.T) {
	t.Parallel()

	got, err := RenderDaily(sampleSnapshot())
	require.NoError(t, err)

	want := strings.Join([]string{
		"```",
		"Rank  | Name           | Stars | Score",
		strings.Repeat("-", 38),
		"   1) | Alice          | **    |   120",
		"   2) | Anonymous User | *     |    80",
		"```",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("daily table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTable_Cumulative(t *testing.T) {
	t.Parallel()

	got, err := RenderCumulative(sampleSnapshot())
	require.NoError(t, err)

	want := strings.Join([]string{
		"```",
		"Name           | Score | Stars",
		strings.Repeat("-", 31),
		"Alice          |   300 | ******",
		"Anonymous User |    42 | ****",
		"```",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cumulative table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTable_EmptyLeaderboard(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{Daily, Cumulative} {
		_, err := BuildTable(&leaderboard.Snapshot{}, mode)
		require.Error(t, err, mode.String())
		assert.ErrorIs(t, err, apperrors.ErrEmptyLeaderboard)

		_, err = BuildTable(nil, mode)
		assert.ErrorIs(t, err, apperrors.ErrEmptyLeaderboard)
	}
}

func TestBuildTable_UnknownMode(t *testing.T) {
	t.Parallel()

	_, err := BuildTable(sampleSnapshot(), Mode(42))
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrEmptyLeaderboard)
}

func TestBuildTable_RanksFollowInputOrder(t *testing.T) {
	t.Parallel()

	// Ties and unsorted scores are not re-ranked.
	snap := &leaderboard.Snapshot{Today: []leaderboard.DailyEntry{
		{Name: leaderboard.StringPtr("c"), Score: 10},
		{Name: leaderboard.StringPtr("a"), Score: 10},
		{Name: leaderboard.StringPtr("b"), Score: 50},
	}}
	got, err := RenderDaily(snap)
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	assert.True(t, strings.HasPrefix(lines[3], "   1) | c"))
	assert.True(t, strings.HasPrefix(lines[4], "   2) | a"))
	assert.True(t, strings.HasPrefix(lines[5], "   3) | b"))
}

func TestBuildTable_RowBudgetLimitsDailyRows(t *testing.T) {
	t.Parallel()

	// nameWidth 200 -> row width 224 -> 1900/224 = 8 lines.
	long := strings.Repeat("x", 200)
	snap := &leaderboard.Snapshot{}
	for i := 0; i < 20; i++ {
		snap.Today = append(snap.Today, leaderboard.DailyEntry{Name: leaderboard.StringPtr(long), Score: 100 - i})
	}

	got, err := RenderDaily(snap)
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	// fence + 8 lines + fence
	assert.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[8], "   6) |"))
}

func TestBuildTable_StarRunShrinksBudget(t *testing.T) {
	t.Parallel()

	var full leaderboard.DailyStars
	for i := range full {
		full[i] = 2
	}
	snap := &leaderboard.Snapshot{}
	for i := 0; i < 100; i++ {
		snap.Total = append(snap.Total, leaderboard.CumulativeEntry{Name: leaderboard.StringPtr(fmt.Sprintf("user%02d", i)), Score: 1000 - i, Stars: full})
	}

	got, err := RenderCumulative(snap)
	require.NoError(t, err)

	// nameWidth 6 -> 6+11+50 = 67 -> 1900/67 = 28 lines.
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 28+2)
	assert.Equal(t, strings.Repeat("-", 67), lines[2])
}

func TestBuildTable_HeaderSurvivesHugeRows(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("n", 1500)
	snap := &leaderboard.Snapshot{Total: []leaderboard.CumulativeEntry{
		{Name: leaderboard.StringPtr(huge), Score: 1, Stars: starsOf(1)},
		{Name: leaderboard.StringPtr("b"), Score: 1},
	}}

	got, err := RenderCumulative(snap)
	require.NoError(t, err)

	assert.LessOrEqual(t, utf8.RuneCountInString(got), MessageLimit)
	lines := strings.Split(got, "\n")
	assert.Equal(t, "```", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Name "))
	assert.True(t, strings.HasPrefix(lines[2], "---"))
	assert.Equal(t, "```", lines[len(lines)-1])
	assert.NotContains(t, got, "b   ")
}

func TestRowBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rowWidth int
		expected int
	}{
		{0, MinRowBudget},
		{-5, MinRowBudget},
		{1, 1900},
		{38, 50},
		{1000, MinRowBudget},
		{5000, MinRowBudget},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RowBudget(tt.rowWidth), "rowWidth=%d", tt.rowWidth)
	}
}

func TestFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "```\nabc\n```", Fence("abc"))

	long := strings.Repeat("é", 5000)
	fenced := Fence(long)
	assert.Equal(t, MaxBodyUnits+8, utf8.RuneCountInString(fenced))
	assert.True(t, strings.HasSuffix(fenced, "\n```"))
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"daily", "Today", "leaderboard_today", " DAILY "} {
		m, err := ParseMode(s)
		require.NoError(t, err, s)
		assert.Equal(t, Daily, m)
	}
	for _, s := range []string{"cumulative", "total", "leaderboard_total"} {
		m, err := ParseMode(s)
		require.NoError(t, err, s)
		assert.Equal(t, Cumulative, m)
	}
	_, err := ParseMode("weekly")
	assert.Error(t, err)
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

// randomName mixes ASCII, CJK and emoji so widths and stripping vary.
func randomName(r *rand.Rand) *string {
	if r.Intn(6) == 0 {
		return nil
	}
	pieces := []string{"a", "Zoë", "小", "🔥", "🇳🇱", "👩‍💻", "x", "_", "名前", "Ω"}
	n := 1 + r.Intn(40)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(pieces[r.Intn(len(pieces))])
	}
	return leaderboard.StringPtr(sb.String())
}

func TestBuildTable_Properties(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(2023))
	ts := leaderboard.StringPtr("t")

	for iter := 0; iter < 200; iter++ {
		snap := &leaderboard.Snapshot{}
		entries := 1 + r.Intn(120)
		for i := 0; i < entries; i++ {
			d := leaderboard.DailyEntry{Name: randomName(r), Score: r.Intn(100000)}
			if r.Intn(2) == 0 {
				d.Star1 = ts
			}
			if r.Intn(2) == 0 {
				d.Star2 = ts
			}
			snap.Today = append(snap.Today, d)

			c := leaderboard.CumulativeEntry{Name: randomName(r), Score: r.Intn(100000)}
			for day := range c.Stars {
				c.Stars[day] = r.Intn(3)
			}
			snap.Total = append(snap.Total, c)
		}

		for _, mode := range []Mode{Daily, Cumulative} {
			got, err := BuildTable(snap, mode)
			require.NoError(t, err)
			require.True(t, utf8.ValidString(got))
			require.LessOrEqual(t, utf8.RuneCountInString(got), MessageLimit)

			lines := strings.Split(got, "\n")
			require.GreaterOrEqual(t, len(lines), 4, "fence, header, separator, fence")
			assert.Equal(t, "```", lines[0])
			assert.Equal(t, "```", lines[len(lines)-1])
			assert.Contains(t, lines[1], "Name")
			assert.Equal(t, strings.Repeat("-", len(lines[2])), lines[2])
		}
	}
}
