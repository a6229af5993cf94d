package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recruitdesk/internal/auth"
)

func uptr(v uint64) *uint64 { return &v }

func TestResolveScope(t *testing.T) {
	type TestCase struct {
		Name     string
		Role     string
		Explicit *uint64
		Assigned *uint64
		Expected *uint64
	}

	testCases := []TestCase{
		{Name: "admin 전체 조회", Role: auth.RoleAdmin, Expected: nil},
		{Name: "admin 명시적 지점 선택", Role: auth.RoleAdmin, Explicit: uptr(3), Expected: uptr(3)},
		{Name: "소속 지점 hr은 소속 지점으로 고정", Role: auth.RoleHR, Assigned: uptr(7), Expected: uptr(7)},
		{Name: "hr 명시적 선택이 소속보다 우선", Role: auth.RoleHR, Explicit: uptr(2), Assigned: uptr(7), Expected: uptr(2)},
		{Name: "소속 없는 hr은 전체 조회", Role: auth.RoleHR, Expected: nil},
		{Name: "지원자는 스코프 없음", Role: auth.RoleApplicant, Assigned: uptr(4), Expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			got := ResolveScope(tc.Role, tc.Explicit, tc.Assigned)
			if tc.Expected == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tc.Expected, *got)
			}
		})
	}
}

func TestCanAccessJob(t *testing.T) {
	type TestCase struct {
		Name      string
		Role      string
		Assigned  *uint64
		JobBranch *uint64
		Expected  bool
	}

	testCases := []TestCase{
		{Name: "admin은 전부 접근", Role: auth.RoleAdmin, JobBranch: uptr(2), Expected: true},
		{Name: "소속 없는 hr은 전부 접근", Role: auth.RoleHR, JobBranch: uptr(2), Expected: true},
		{Name: "소속 hr 자기 지점 공고", Role: auth.RoleHR, Assigned: uptr(1), JobBranch: uptr(1), Expected: true},
		{Name: "소속 hr 전역 공고", Role: auth.RoleHR, Assigned: uptr(1), JobBranch: nil, Expected: true},
		{Name: "소속 hr 타 지점 공고 거부", Role: auth.RoleHR, Assigned: uptr(1), JobBranch: uptr(2), Expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, CanAccessJob(tc.Role, tc.Assigned, tc.JobBranch))
		})
	}
}

func TestScopedJobCondition(t *testing.T) {
	// 스코프 없음: 조건 자체가 붙지 않아야 함
	cond, args := ScopedJobCondition("j.branch_id", nil)
	assert.Equal(t, "", cond)
	assert.Nil(t, args)

	// 스코프 있음: 지점 일치 또는 전역(NULL) 공고를 모두 포함해야 함
	cond, args = ScopedJobCondition("j.branch_id", uptr(5))
	assert.Equal(t, "(j.branch_id = ? OR j.branch_id IS NULL)", cond)
	assert.Equal(t, []interface{}{uint64(5)}, args)
}
