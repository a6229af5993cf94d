package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"recruitdesk/internal/application"
	"recruitdesk/internal/job"
)

func TestSuccessRate(t *testing.T) {
	type TestCase struct {
		Name     string
		Hired    int
		Total    int
		Expected int
	}

	testCases := []TestCase{
		{Name: "지원서 없음", Hired: 0, Total: 0, Expected: 0},
		{Name: "채용 없음", Hired: 0, Total: 10, Expected: 0},
		{Name: "절반", Hired: 5, Total: 10, Expected: 50},
		{Name: "반올림 올림", Hired: 1, Total: 3, Expected: 33},
		{Name: "반올림 경계", Hired: 1, Total: 8, Expected: 13}, // 12.5 -> 13
		{Name: "전원 채용", Hired: 4, Total: 4, Expected: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, SuccessRate(tc.Hired, tc.Total))
		})
	}
}

func TestBuildStatusDistribution(t *testing.T) {
	rows := []application.StatusCount{
		{Status: "rejected", Count: 2},
		{Status: "reviewed", Count: 3},  // legacy -> pending
		{Status: "interview", Count: 1}, // legacy -> interviewed
		{Status: "pending", Count: 4},
		{Status: "withdrawn", Count: 9}, // 차트에서 제외
		{Status: "hired", Count: 1},
		{Status: "interviewed", Count: 2},
	}

	out := BuildStatusDistribution(rows)

	// withdrawn은 어느 조각에도 나타나면 안 됨
	for _, slice := range out {
		assert.NotEqual(t, application.StatusWithdrawn, slice.Status)
	}

	// 고정 선두 순서(scheduled/interviewed/hired/rejected) 후 이름순
	assert.Equal(t, []StatusSlice{
		{Status: application.StatusInterviewed, Count: 3}, // interview(1) + interviewed(2) 합산
		{Status: application.StatusHired, Count: 1},
		{Status: application.StatusRejected, Count: 2},
		{Status: application.StatusPending, Count: 7}, // pending(4) + reviewed(3) 합산
	}, out)
}

func TestBuildStatusDistributionSkipsZeroBuckets(t *testing.T) {
	rows := []application.StatusCount{
		{Status: "scheduled", Count: 0},
		{Status: "hired", Count: 2},
	}
	out := BuildStatusDistribution(rows)
	assert.Equal(t, []StatusSlice{{Status: application.StatusHired, Count: 2}}, out)
}

func TestBuildDailySeries(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	rows := []application.DateCount{
		{Day: "2026-08-27", Count: 3},
		{Day: "2026-08-29", Count: 1},
		{Day: "2026-07-01", Count: 99}, // 범위 밖은 무시
	}

	out := BuildDailySeries(rows, 4, now)

	assert.Equal(t, []DatePoint{
		{Date: "2026-08-26", Count: 0},
		{Date: "2026-08-27", Count: 3},
		{Date: "2026-08-28", Count: 0},
		{Date: "2026-08-29", Count: 1},
	}, out)
}

func TestMergeActivity(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 8, 29, h, 0, 0, 0, time.UTC) }

	apps := []application.ActivityItem{
		{Kind: "application", Description: "a1", OccurredAt: at(9)},
		{Kind: "application", Description: "a2", OccurredAt: at(13)},
	}
	interviews := []application.ActivityItem{
		{Kind: "interview", Description: "i1", OccurredAt: at(11)},
	}

	out := MergeActivity(2, apps, interviews)

	assert.Len(t, out, 2)
	assert.Equal(t, "a2", out[0].Description)
	assert.Equal(t, "i1", out[1].Description)
}

func TestMergeActivityIncludesJobPostings(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 8, 29, h, 0, 0, 0, time.UTC) }

	apps := []application.ActivityItem{
		{Kind: "application", Description: "a1", OccurredAt: at(9)},
	}
	interviews := []application.ActivityItem{
		{Kind: "interview", Description: "i1", OccurredAt: at(11)},
	}
	jobs := JobActivity([]job.ActivityRow{
		{Kind: "job", Description: "새 공고: 백엔드 엔지니어", Status: "open", OccurredAt: at(12)},
	})

	out := MergeActivity(10, apps, interviews, jobs)

	assert.Len(t, out, 3)
	assert.Equal(t, "job", out[0].Kind)
	assert.Equal(t, "새 공고: 백엔드 엔지니어", out[0].Description)
	assert.Equal(t, "i1", out[1].Description)
	assert.Equal(t, "a1", out[2].Description)
}

func TestJobActivity(t *testing.T) {
	now := time.Now()
	rows := []job.ActivityRow{
		{Kind: "job", Description: "새 공고: 디자이너", Status: "open", OccurredAt: now},
	}

	out := JobActivity(rows)

	assert.Len(t, out, 1)
	assert.Equal(t, "job", out[0].Kind)
	assert.Equal(t, "새 공고: 디자이너", out[0].Description)
	assert.Equal(t, "open", out[0].Status)
	assert.Equal(t, now, out[0].OccurredAt)

	assert.Empty(t, JobActivity(nil))
}

func TestMergeActivityEmptySources(t *testing.T) {
	out := MergeActivity(5)
	assert.NotNil(t, out) // 템플릿 렌더링을 위해 nil 대신 빈 슬라이스
	assert.Len(t, out, 0)
}

func TestStartOfWeek(t *testing.T) {
	// 토요일 -> 그 주 월요일 00:00
	sat := time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), startOfWeek(sat))

	// 일요일은 다음 주가 아닌 지난 월요일로
	sun := time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), startOfWeek(sun))

	// 월요일은 그 날 자신
	mon := time.Date(2026, 8, 24, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), startOfWeek(mon))
}
