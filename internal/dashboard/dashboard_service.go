package dashboard

import (
	"log"
	"math"
	"sort"
	"time"

	// (주의) 다른 패키지(application, auth, interview, job, branch)의 Store를 사용합니다.
	"recruitdesk/internal/application"
	"recruitdesk/internal/auth"
	"recruitdesk/internal/branch"
	"recruitdesk/internal/interview"
	"recruitdesk/internal/job"

	"golang.org/x/sync/errgroup" // (여러 집계 쿼리를 병렬로 처리하기 위함)
)

// Stats는 대시보드 상단 지표 묶음입니다.
type Stats struct {
	PendingCount      int `json:"pending_count"`
	WeekCount         int `json:"week_count"`
	TodayCount        int `json:"today_count"`
	OpenJobCount      int `json:"open_job_count"`
	TotalApplicants   int `json:"total_applicants"`
	TotalApplications int `json:"total_applications"`
	HiredApplications int `json:"hired_applications"`
	SuccessRate       int `json:"success_rate"` // round(hired/total*100), total=0이면 0
}

// DatePoint는 일별 추이 차트의 한 점입니다.
type DatePoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// StatusSlice는 상태 분포 차트의 한 조각입니다.
type StatusSlice struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ChartData는 차트 시리즈 묶음입니다. (뷰의 chart_data.* 키와 대응)
type ChartData struct {
	ApplicationsOverTime []DatePoint               `json:"applications_over_time"`
	StatusDistribution   []StatusSlice             `json:"status_distribution"`
	TopJobs              []application.JobCount    `json:"top_jobs"`
	BranchPerformance    []application.BranchCount `json:"branch_performance"`
}

// DashboardData는 대시보드 뷰(View)에 전달될 데이터 구조체입니다.
type DashboardData struct {
	User               *auth.UserView
	Stats              Stats
	ChartData          ChartData
	RecentActivity     []application.ActivityItem
	UpcomingInterviews []interview.InterviewRow
	ActiveSessions     []auth.ActiveSessionRow
	Branches           []branch.Branch
	HRAccounts         []auth.HRAccountRow
}

// Service는 대시보드 데이터 조회를 담당합니다. (여러 Store에 의존합니다)
type Service struct {
	appStore       *application.Store
	jobStore       *job.Store
	interviewStore *interview.Store
	authStore      *auth.Store
	branchStore    *branch.Store
}

// NewService는 대시보드 서비스를 생성합니다.
func NewService(as *application.Store, js *job.Store, is *interview.Store,
	us *auth.Store, bs *branch.Store) *Service {
	return &Service{
		appStore:       as,
		jobStore:       js,
		interviewStore: is,
		authStore:      us,
		branchStore:    bs,
	}
}

// GetDashboardData는 독립적인 집계 쿼리들을 병렬로 수행하여 조립합니다.
// 지표 그룹의 쿼리 실패는 해당 지표를 0으로 두고 페이지는 계속 렌더링합니다.
// (여러 쿼리를 단일 트랜잭션으로 묶지 않는 best-effort 스냅샷입니다)
func (s *Service) GetDashboardData(view *auth.UserView, explicitBranch *uint64) *DashboardData {
	scope := branch.ResolveScope(view.Role, explicitBranch, view.BranchID)
	now := time.Now()

	data := &DashboardData{User: view}
	var eg errgroup.Group

	// 고루틴 1: 지표 그룹 (실패 시 0으로 강등, 페이지는 계속)
	eg.Go(func() error {
		data.Stats = s.collectStats(scope, now)
		return nil
	})

	// 고루틴 2: 다가오는 면접 5건
	eg.Go(func() error {
		rows, err := s.interviewStore.UpcomingInterviews(5, scope)
		if err != nil {
			rows = []interview.InterviewRow{}
		}
		data.UpcomingInterviews = rows
		return nil
	})

	// 고루틴 3: 최근 활동 피드 (지원/면접/공고 병합)
	eg.Go(func() error {
		apps, err := s.appStore.RecentApplications(10, scope)
		if err != nil {
			apps = nil
		}
		ivs, err := s.interviewStore.RecentInterviews(10, scope)
		if err != nil {
			ivs = nil
		}
		jobs, err := s.jobStore.RecentJobs(10, scope)
		if err != nil {
			jobs = nil
		}
		data.RecentActivity = MergeActivity(10, apps, ivs, JobActivity(jobs))
		return nil
	})

	// 고루틴 4: 일별 추이 (최근 30일, 빈 날짜는 0으로 채움)
	eg.Go(func() error {
		since := now.AddDate(0, 0, -29).Truncate(24 * time.Hour)
		rows, err := s.appStore.PerDayCounts(since, scope)
		if err != nil {
			rows = nil
		}
		data.ChartData.ApplicationsOverTime = BuildDailySeries(rows, 30, now)
		return nil
	})

	// 고루틴 5: 상태 분포 (canonical 접기, withdrawn 제외)
	eg.Go(func() error {
		rows, err := s.appStore.StatusCounts(scope)
		if err != nil {
			rows = nil
		}
		data.ChartData.StatusDistribution = BuildStatusDistribution(rows)
		return nil
	})

	// 고루틴 6: 지원 수 상위 공고 5개
	eg.Go(func() error {
		rows, err := s.appStore.TopJobs(5, scope)
		if err != nil {
			rows = []application.JobCount{}
		}
		data.ChartData.TopJobs = rows
		return nil
	})

	// 고루틴 7: 지점별 실적 (전 지점 스코프일 때만)
	if scope == nil {
		eg.Go(func() error {
			rows, err := s.appStore.BranchTotals(5)
			if err != nil {
				rows = []application.BranchCount{}
			}
			data.ChartData.BranchPerformance = rows
			return nil
		})
	}

	// 고루틴 8: 관리자 부가 데이터 (활성 세션, HR 계정, 지점 목록)
	eg.Go(func() error {
		branches, err := s.branchStore.ListBranches()
		if err != nil {
			branches = []branch.Branch{}
		}
		data.Branches = branches
		if view.IsAdmin() {
			if sessions, err := s.authStore.ListActiveSessions(); err == nil {
				data.ActiveSessions = sessions
			}
			if accounts, err := s.authStore.ListHRAccounts(); err == nil {
				data.HRAccounts = accounts
			}
		}
		return nil
	})

	// (각 고루틴이 실패를 기본값으로 강등하므로 Wait은 항상 nil)
	_ = eg.Wait()
	return data
}

// collectStats는 지표 그룹을 수집합니다. 개별 쿼리 실패는 0으로 둡니다.
func (s *Service) collectStats(scope *uint64, now time.Time) Stats {
	var st Stats

	count := func(name string, f func() (int, error)) int {
		n, err := f()
		if err != nil {
			log.Printf("[ERROR] 대시보드 지표 '%s' 조회 실패, 0으로 대체: %v", name, err)
			return 0
		}
		return n
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := startOfWeek(now)

	st.PendingCount = count("pending", func() (int, error) {
		return s.appStore.CountByStatus(application.StatusPending, scope)
	})
	st.WeekCount = count("week", func() (int, error) {
		return s.appStore.CountSince(weekStart, scope)
	})
	st.TodayCount = count("today", func() (int, error) {
		return s.appStore.CountSince(today, scope)
	})
	st.OpenJobCount = count("open_jobs", func() (int, error) {
		return s.jobStore.CountOpenJobs(scope)
	})
	st.TotalApplicants = count("applicants", func() (int, error) {
		return s.authStore.CountApplicants()
	})
	st.TotalApplications = count("total", func() (int, error) {
		return s.appStore.CountAll(scope)
	})
	st.HiredApplications = count("hired", func() (int, error) {
		return s.appStore.CountByStatus(application.StatusHired, scope)
	})
	st.SuccessRate = SuccessRate(st.HiredApplications, st.TotalApplications)
	return st
}

// SuccessRate는 round(hired/total*100)입니다. total이 0이면 0입니다.
func SuccessRate(hired, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(hired) / float64(total) * 100))
}

// 상태 분포 차트의 고정 선두 순서
var statusChartOrder = []string{
	application.StatusScheduled,
	application.StatusInterviewed,
	application.StatusHired,
	application.StatusRejected,
}

// BuildStatusDistribution은 raw 상태 집계를 차트 조각으로 변환합니다.
//   - legacy 라벨을 canonical 값으로 접고, 같은 버킷은 합산
//   - withdrawn은 완전히 제외 (차트 한정; 목록/총계에는 남음)
//   - scheduled, interviewed, hired, rejected 순으로 먼저 (count > 0일 때만),
//     이후 나머지는 이름 오름차순
func BuildStatusDistribution(rows []application.StatusCount) []StatusSlice {
	buckets := make(map[string]int)
	for _, r := range rows {
		status := application.CanonicalStatus(r.Status)
		if status == application.StatusWithdrawn {
			continue
		}
		buckets[status] += r.Count
	}

	out := make([]StatusSlice, 0, len(buckets))
	for _, status := range statusChartOrder {
		if n, ok := buckets[status]; ok && n > 0 {
			out = append(out, StatusSlice{Status: status, Count: n})
			delete(buckets, status)
		} else {
			delete(buckets, status)
		}
	}

	rest := make([]StatusSlice, 0, len(buckets))
	for status, n := range buckets {
		if n > 0 {
			rest = append(rest, StatusSlice{Status: status, Count: n})
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Status < rest[j].Status })
	return append(out, rest...)
}

// BuildDailySeries는 일별 집계를 최근 days일의 연속 시리즈로 펼칩니다.
// 집계에 없는 날짜는 0으로 채우고, 날짜 오름차순을 보장합니다.
func BuildDailySeries(rows []application.DateCount, days int, now time.Time) []DatePoint {
	byDay := make(map[string]int, len(rows))
	for _, r := range rows {
		byDay[r.Day] = r.Count
	}

	out := make([]DatePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, DatePoint{Date: day, Count: byDay[day]})
	}
	return out
}

// JobActivity는 공고 활동 행을 피드 항목으로 바꿉니다.
// (job 패키지는 application을 임포트할 수 없으므로 변환은 여기서 합니다)
func JobActivity(rows []job.ActivityRow) []application.ActivityItem {
	out := make([]application.ActivityItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, application.ActivityItem{
			Kind:        r.Kind,
			Description: r.Description,
			Status:      r.Status,
			OccurredAt:  r.OccurredAt,
		})
	}
	return out
}

// MergeActivity는 여러 출처의 활동 항목을 최신순으로 병합하고 limit으로 자릅니다.
func MergeActivity(limit int, sources ...[]application.ActivityItem) []application.ActivityItem {
	var merged []application.ActivityItem
	for _, src := range sources {
		merged = append(merged, src...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].OccurredAt.After(merged[j].OccurredAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	if merged == nil {
		merged = []application.ActivityItem{}
	}
	return merged
}

// startOfWeek는 월요일 00:00을 반환합니다.
func startOfWeek(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekday := int(day.Weekday())
	if weekday == 0 { // 일요일
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
