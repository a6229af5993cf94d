package auth

import (
	"time"
)

// 역할 정규화 결과로 쓰이는 canonical 태그입니다.
const (
	RoleAdmin     = "admin"
	RoleHR        = "hr"
	RoleApplicant = "applicant"
)

// User는 'users' 테이블의 스키마를 Go 코드로 표현합니다.
type User struct {
	ID           uint64     `json:"id" db:"id"`                         // bigint UNSIGNED
	Email        string     `json:"email" db:"email"`                   // varchar(150)
	PasswordHash string     `json:"-" db:"password_hash"`               // varchar(100)
	Role         string     `json:"role" db:"role"`                     // varchar(20)
	IsActive     bool       `json:"is_active" db:"is_active"`           // tinyint(1)
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`   // datetime NULL
	LastLogoutAt *time.Time `json:"last_logout_at" db:"last_logout_at"` // datetime NULL
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// StaffProfile은 admin/hr 계정의 1:1 프로필입니다.
// BranchID가 NULL이면 "전 지점" 계정입니다.
type StaffProfile struct {
	ID        uint64    `json:"id" db:"id"`
	UserID    uint64    `json:"user_id" db:"user_id"`
	StaffName string    `json:"staff_name" db:"staff_name"`
	BranchID  *uint64   `json:"branch_id" db:"branch_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ApplicantProfile은 지원자 계정의 1:1 프로필입니다.
type ApplicantProfile struct {
	ID               uint64     `json:"id" db:"id"`
	UserID           uint64     `json:"user_id" db:"user_id"`
	ApplicantName    string     `json:"applicant_name" db:"applicant_name"`
	VerifyToken      *string    `json:"-" db:"verify_token"`
	VerifyExpireAt   *time.Time `json:"-" db:"verify_expire_at"`
	VerifiedAt       *time.Time `json:"verified_at" db:"verified_at"`
	ProfileUpdatedAt *time.Time `json:"profile_updated_at" db:"profile_updated_at"`
}

// AuthSession은 'auth_sessions' 테이블의 스키마입니다.
// (쿠키 세션과 별개로 서버에 영속되는 로그인 기록)
type AuthSession struct {
	ID           uint64    `json:"id" db:"id"`
	SessionToken string    `json:"session_token" db:"session_token"`
	UserID       uint64    `json:"user_id" db:"user_id"`
	ExpireAt     time.Time `json:"expire_at" db:"expire_at"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ActiveSessionRow는 관리자 대시보드의 활성 세션 목록 행입니다.
type ActiveSessionRow struct {
	SessionToken string    `db:"session_token"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	ExpireAt     time.Time `db:"expire_at"`
}

// HRAccountRow는 관리자 화면의 HR 계정 목록 행입니다.
type HRAccountRow struct {
	UserID      uint64     `db:"user_id"`
	Email       string     `db:"email"`
	StaffName   string     `db:"staff_name"`
	BranchID    *uint64    `db:"branch_id"`
	BranchName  *string    `db:"branch_name"`
	IsActive    bool       `db:"is_active"`
	LastLoginAt *time.Time `db:"last_login_at"`
}

// UserView는 요청 처리 중 사용되는 "현재 사용자" 해석 결과입니다.
// (세션에 캐시되지만, DB의 프로필이 항상 우선합니다)
type UserView struct {
	UserID      uint64  `json:"user_id"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	DisplayName string  `json:"display_name"`
	BranchID    *uint64 `json:"branch_id"`  // staff 전용 (hr 지점 소속)
	ProfileID   uint64  `json:"profile_id"` // staff_profiles.id 또는 applicant_profiles.id
	Verified    bool    `json:"verified"`   // applicant 전용
}

func (v *UserView) IsAdmin() bool { return v.Role == RoleAdmin }
func (v *UserView) IsStaff() bool { return v.Role == RoleAdmin || v.Role == RoleHR }
