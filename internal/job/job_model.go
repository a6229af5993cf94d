package job

import (
	"strings"
	"time"
)

// 공고 수명주기 상태
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Job은 'jobs' 테이블의 스키마입니다.
// BranchID가 NULL이면 전 지점 공통(전역) 공고입니다.
type Job struct {
	ID                uint64    `json:"id" db:"id"`
	JobTitle          string    `json:"job_title" db:"job_title"`
	JobDescription    string    `json:"job_description" db:"job_description"`
	BranchID          *uint64   `json:"branch_id" db:"branch_id"`
	JobStatus         string    `json:"job_status" db:"job_status"`
	AllowedExtensions string    `json:"allowed_extensions" db:"allowed_extensions"` // CSV, 비면 전역 기본값 사용
	MaxUploadBytes    int64     `json:"max_upload_bytes" db:"max_upload_bytes"`     // 0이면 전역 기본값 사용
	RequiredFileTypes string    `json:"required_file_types" db:"required_file_types"`
	PostedBy          *uint64   `json:"posted_by" db:"posted_by"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ExtensionList는 CSV 허용 확장자를 소문자 슬라이스로 돌려줍니다.
func (j *Job) ExtensionList() []string {
	if strings.TrimSpace(j.AllowedExtensions) == "" {
		return nil
	}
	parts := strings.Split(j.AllowedExtensions, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(p, ".")))
		if p != "" {
			exts = append(exts, p)
		}
	}
	return exts
}

// RequiredFileList는 CSV 필수 서류 종류를 소문자 슬라이스로 돌려줍니다.
// 비어 있으면 첨부 없는 지원도 허용됩니다.
func (j *Job) RequiredFileList() []string {
	if strings.TrimSpace(j.RequiredFileTypes) == "" {
		return nil
	}
	parts := strings.Split(j.RequiredFileTypes, ",")
	kinds := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			kinds = append(kinds, p)
		}
	}
	return kinds
}

// JobRow는 목록 화면용 행입니다. (지점명 조인 포함)
type JobRow struct {
	Job
	BranchName *string `db:"branch_name"`
}

// ActivityRow는 최근 활동 피드용 공고 항목입니다.
// (피드 병합은 dashboard가 담당하므로 여기서는 행만 돌려줍니다)
type ActivityRow struct {
	Kind        string    `db:"kind"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	OccurredAt  time.Time `db:"occurred_at"`
}
