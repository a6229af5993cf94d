package application

import (
	"time"
)

// canonical 지원서 상태 집합
const (
	StatusPending     = "pending"
	StatusScheduled   = "scheduled"
	StatusInterviewed = "interviewed"
	StatusHired       = "hired"
	StatusRejected    = "rejected"
	StatusWithdrawn   = "withdrawn"
)

// legacyStatusMap은 과거 리비전의 상태 라벨을 canonical 값으로 접습니다.
var legacyStatusMap = map[string]string{
	"reviewed":     StatusPending,
	"shortlisted":  StatusPending,
	"applied":      StatusPending,
	"under_review": StatusPending,
	"interview":    StatusInterviewed,
	"accepted":     StatusHired,
}

// canonicalSet은 상태 전이 검증에 사용됩니다.
var canonicalSet = map[string]bool{
	StatusPending:     true,
	StatusScheduled:   true,
	StatusInterviewed: true,
	StatusHired:       true,
	StatusRejected:    true,
	StatusWithdrawn:   true,
}

// CanonicalStatus는 상태 라벨을 canonical 값으로 정규화합니다.
func CanonicalStatus(raw string) string {
	if mapped, ok := legacyStatusMap[raw]; ok {
		return mapped
	}
	return raw
}

// IsCanonicalStatus는 canonical 집합 포함 여부를 반환합니다.
func IsCanonicalStatus(status string) bool {
	return canonicalSet[status]
}

// Application은 'applications' 테이블의 스키마입니다.
// ViewedAt이 찍히기 전까지만 지원자가 수정할 수 있습니다.
type Application struct {
	ID          uint64     `json:"id" db:"id"`
	JobID       uint64     `json:"job_id" db:"job_id"`
	ApplicantID uint64     `json:"applicant_id" db:"applicant_id"`
	AppStatus   string     `json:"app_status" db:"app_status"`
	AppliedAt   time.Time  `json:"applied_at" db:"applied_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	ViewedAt    *time.Time `json:"viewed_at" db:"viewed_at"`
	CoverLetter *string    `json:"cover_letter" db:"cover_letter"`
}

// ApplicationRow는 목록 화면용 행입니다.
type ApplicationRow struct {
	Application
	JobTitle      string  `db:"job_title"`
	ApplicantName string  `db:"applicant_name"`
	BranchName    *string `db:"branch_name"`
}

// Resume는 'resumes' 테이블의 스키마입니다. (업로드 디스크립터의 영속형)
type Resume struct {
	ID           uint64    `json:"id" db:"id"`
	ApplicantID  uint64    `json:"applicant_id" db:"applicant_id"`
	OriginalName string    `json:"original_name" db:"original_name"`
	StoredName   string    `json:"stored_name" db:"stored_name"`
	FilePath     string    `json:"file_path" db:"file_path"` // 인스턴스 루트 기준 상대 경로
	FileSize     int64     `json:"file_size" db:"file_size"`
	MimeType     string    `json:"mime_type" db:"mime_type"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// --- 대시보드 집계용 행 타입 ---

type StatusCount struct {
	Status string `db:"app_status"`
	Count  int    `db:"cnt"`
}

type DateCount struct {
	Day   string `db:"day"` // YYYY-MM-DD
	Count int    `db:"cnt"`
}

type JobCount struct {
	JobTitle string `db:"job_title"`
	Count    int    `db:"cnt"`
}

type BranchCount struct {
	BranchName string `db:"branch_name"`
	Count      int    `db:"cnt"`
}

// ActivityItem은 최근 활동 피드의 한 항목입니다.
type ActivityItem struct {
	Kind        string    `db:"kind"` // application / interview / job
	Description string    `db:"description"`
	Status      string    `db:"status"`
	OccurredAt  time.Time `db:"occurred_at"`
}
