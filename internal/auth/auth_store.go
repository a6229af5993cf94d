package auth

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Store는 'auth' 기능의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// CreateUser는 users 행을 INSERT하고 생성된 ID를 돌려줍니다.
func (s *Store) CreateUser(user *User) (uint64, error) {
	query := `
		INSERT INTO users (email, password_hash, role, is_active)
		VALUES (:email, :password_hash, :role, :is_active)`
	res, err := s.db.NamedExec(query, user)
	if err != nil {
		log.Printf("[ERROR] CreateUser DB 에러: %v", err)
		return 0, err
	}
	id, _ := res.LastInsertId()
	log.Printf("[INFO] 신규 사용자 DB 저장 성공: %s", user.Email)
	return uint64(id), nil
}

// GetUserByEmail은 이메일로 사용자를 조회합니다. (없으면 nil, nil)
func (s *Store) GetUserByEmail(email string) (*User, error) {
	var user User
	query := `
		SELECT id, email, password_hash, role, is_active,
			last_login_at, last_logout_at, created_at, updated_at
		FROM users
		WHERE email = ?`
	err := s.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetUserByEmail DB 에러: %v", err)
		return nil, err
	}
	return &user, nil
}

// GetUserByID는 ID로 사용자를 조회합니다. (없으면 nil, nil)
func (s *Store) GetUserByID(id uint64) (*User, error) {
	var user User
	query := `
		SELECT id, email, password_hash, role, is_active,
			last_login_at, last_logout_at, created_at, updated_at
		FROM users
		WHERE id = ?`
	err := s.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetUserByID DB 에러: %v", err)
		return nil, err
	}
	return &user, nil
}

// GetStaffProfile은 user_id로 staff 프로필을 조회합니다.
func (s *Store) GetStaffProfile(userID uint64) (*StaffProfile, error) {
	var p StaffProfile
	query := `
		SELECT id, user_id, staff_name, branch_id, created_at
		FROM staff_profiles
		WHERE user_id = ?`
	err := s.db.Get(&p, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetStaffProfile DB 에러: %v", err)
		return nil, err
	}
	return &p, nil
}

// CreateStaffProfile은 staff 프로필을 INSERT합니다.
func (s *Store) CreateStaffProfile(p *StaffProfile) error {
	query := `
		INSERT INTO staff_profiles (user_id, staff_name, branch_id)
		VALUES (:user_id, :staff_name, :branch_id)`
	_, err := s.db.NamedExec(query, p)
	if err != nil {
		log.Printf("[ERROR] CreateStaffProfile DB 에러: %v", err)
		return err
	}
	return nil
}

// GetApplicantProfile은 user_id로 지원자 프로필을 조회합니다.
func (s *Store) GetApplicantProfile(userID uint64) (*ApplicantProfile, error) {
	var p ApplicantProfile
	query := `
		SELECT id, user_id, applicant_name, verify_token,
			verify_expire_at, verified_at, profile_updated_at
		FROM applicant_profiles
		WHERE user_id = ?`
	err := s.db.Get(&p, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetApplicantProfile DB 에러: %v", err)
		return nil, err
	}
	return &p, nil
}

// CreateApplicantProfile은 지원자 프로필을 INSERT합니다.
func (s *Store) CreateApplicantProfile(p *ApplicantProfile) error {
	query := `
		INSERT INTO applicant_profiles
			(user_id, applicant_name, verify_token, verify_expire_at)
		VALUES (:user_id, :applicant_name, :verify_token, :verify_expire_at)`
	_, err := s.db.NamedExec(query, p)
	if err != nil {
		log.Printf("[ERROR] CreateApplicantProfile DB 에러: %v", err)
		return err
	}
	return nil
}

// VerifyApplicant는 토큰이 일치하고 만료 전인 프로필을 검증 처리합니다.
func (s *Store) VerifyApplicant(token string) error {
	query := `
		UPDATE applicant_profiles
		SET verified_at = NOW(), verify_token = NULL, verify_expire_at = NULL
		WHERE verify_token = ? AND verify_expire_at >= NOW()`
	res, err := s.db.Exec(query, token)
	if err != nil {
		log.Printf("[ERROR] VerifyApplicant DB 에러: %v", err)
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- 인증 세션 ---

// CreateAuthSession은 서버측 로그인 기록을 INSERT합니다.
func (s *Store) CreateAuthSession(as *AuthSession) error {
	query := `
		INSERT INTO auth_sessions (session_token, user_id, expire_at, is_active)
		VALUES (:session_token, :user_id, :expire_at, :is_active)`
	_, err := s.db.NamedExec(query, as)
	if err != nil {
		log.Printf("[ERROR] CreateAuthSession DB 에러: %v", err)
		return err
	}
	return nil
}

// DeactivateAuthSession은 세션을 비활성 처리합니다. (삭제하지 않음)
func (s *Store) DeactivateAuthSession(token string) error {
	query := `UPDATE auth_sessions SET is_active = 0 WHERE session_token = ?`
	_, err := s.db.Exec(query, token)
	if err != nil {
		log.Printf("[ERROR] DeactivateAuthSession DB 에러: %v", err)
		return err
	}
	return nil
}

// ExpireStaleSessions는 만료일이 지난 활성 세션을 일괄 비활성 처리합니다.
// (스케줄러에서 주기적으로 호출)
func (s *Store) ExpireStaleSessions() (int64, error) {
	query := `UPDATE auth_sessions SET is_active = 0 WHERE is_active = 1 AND expire_at < NOW()`
	res, err := s.db.Exec(query)
	if err != nil {
		log.Printf("[ERROR] ExpireStaleSessions DB 에러: %v", err)
		return 0, err
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

// ListActiveSessions는 아직 유효한 세션 목록을 반환합니다. (관리자 대시보드용)
func (s *Store) ListActiveSessions() ([]ActiveSessionRow, error) {
	var rows []ActiveSessionRow
	query := `
		SELECT a.session_token, u.email, u.role, a.created_at, a.expire_at
		FROM auth_sessions AS a
		JOIN users AS u ON a.user_id = u.id
		WHERE a.is_active = 1 AND a.expire_at >= NOW()
		ORDER BY a.created_at DESC`
	err := s.db.Select(&rows, query)
	if err != nil {
		log.Printf("[ERROR] ListActiveSessions DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// --- 로그인/로그아웃 타임스탬프 ---

// TouchLastLogin은 users.last_login_at을 갱신합니다.
func (s *Store) TouchLastLogin(userID uint64) error {
	_, err := s.db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, time.Now(), userID)
	if err != nil {
		log.Printf("[ERROR] TouchLastLogin DB 에러: %v", err)
	}
	return err
}

// TouchLastLogout은 users.last_logout_at을 갱신합니다.
func (s *Store) TouchLastLogout(userID uint64) error {
	_, err := s.db.Exec(`UPDATE users SET last_logout_at = ? WHERE id = ?`, time.Now(), userID)
	if err != nil {
		log.Printf("[ERROR] TouchLastLogout DB 에러: %v", err)
	}
	return err
}

// --- 관리자 기능 ---

// ListHRAccounts는 staff 계정 목록(지점명 포함)을 반환합니다.
func (s *Store) ListHRAccounts() ([]HRAccountRow, error) {
	var rows []HRAccountRow
	query := `
		SELECT u.id AS user_id, u.email, sp.staff_name, sp.branch_id,
			b.branch_name, u.is_active, u.last_login_at
		FROM users AS u
		JOIN staff_profiles AS sp ON sp.user_id = u.id
		LEFT JOIN branches AS b ON b.id = sp.branch_id
		WHERE u.role IN ('admin', 'hr')
		ORDER BY u.created_at ASC`
	err := s.db.Select(&rows, query)
	if err != nil {
		log.Printf("[ERROR] ListHRAccounts DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// SetUserActive는 계정 활성 여부를 변경합니다.
func (s *Store) SetUserActive(userID uint64, active bool) error {
	res, err := s.db.Exec(`UPDATE users SET is_active = ? WHERE id = ?`, active, userID)
	if err != nil {
		log.Printf("[ERROR] SetUserActive DB 에러: %v", err)
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountApplicants는 전체 지원자 수를 반환합니다. (대시보드용)
func (s *Store) CountApplicants() (int, error) {
	var n int
	err := s.db.Get(&n, `SELECT COUNT(*) FROM applicant_profiles`)
	if err != nil {
		log.Printf("[ERROR] CountApplicants DB 에러: %v", err)
		return 0, err
	}
	return n, nil
}
