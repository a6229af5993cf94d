package branch

import (
	"recruitdesk/internal/auth"
)

// ResolveScope는 지점 스코프를 결정하는 순수 함수입니다.
//   - 명시적 지점 ID가 주어지면 그대로 사용 (override 없음)
//   - hr이고 소속 지점이 있으면 소속 지점
//   - 그 외 (admin, 소속 없는 hr)는 전 지점 (nil)
func ResolveScope(role string, explicit, assigned *uint64) *uint64 {
	if explicit != nil {
		return explicit
	}
	if role == auth.RoleHR && assigned != nil {
		return assigned
	}
	return nil
}

// CanAccessJob은 staff가 해당 공고(와 그 지원서)를 다룰 수 있는지 판단합니다.
// admin과 소속 없는 staff는 전부, 소속 지점 staff는 자기 지점 또는 전역 공고만.
// 읽기/쓰기 구분 없이 지원서 열람·전환·면접 조작에 동일하게 적용됩니다.
func CanAccessJob(role string, assigned, jobBranch *uint64) bool {
	if role == auth.RoleAdmin || assigned == nil {
		return true
	}
	return jobBranch == nil || *jobBranch == *assigned
}

// ScopedJobCondition은 지점 스코프가 있을 때 공고 조회에 붙는 조건식을 만듭니다.
// 전역 공고(branch_id IS NULL)는 어떤 지점 스코프에서도 보여야 합니다.
// scope가 nil이면 조건 없이 ("", nil)을 반환합니다.
func ScopedJobCondition(column string, scope *uint64) (string, []interface{}) {
	if scope == nil {
		return "", nil
	}
	return "(" + column + " = ? OR " + column + " IS NULL)", []interface{}{*scope}
}
