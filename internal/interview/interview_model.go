package interview

import (
	"time"
)

// 면접 진행 방식
const (
	ModeOnsite = "onsite"
	ModeRemote = "remote"
	ModePhone  = "phone"
)

// 면접 상태
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Interview는 'interviews' 테이블의 스키마입니다. (지원서 1 : 면접 N)
type Interview struct {
	ID            uint64    `json:"id" db:"id"`
	ApplicationID uint64    `json:"application_id" db:"application_id"`
	ScheduledAt   time.Time `json:"scheduled_at" db:"scheduled_at"`
	Location      string    `json:"location" db:"location"`
	Mode          string    `json:"interview_mode" db:"interview_mode"`
	Status        string    `json:"interview_status" db:"interview_status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// InterviewRow는 목록/대시보드 화면용 행입니다.
type InterviewRow struct {
	Interview
	JobTitle      string `db:"job_title"`
	ApplicantName string `db:"applicant_name"`
	Email         string `db:"email"`
}
