package application

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"recruitdesk/internal/branch"
)

// Store는 'application' 기능의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// CreateApplication은 지원서를 INSERT하고 생성된 ID를 돌려줍니다.
func (s *Store) CreateApplication(a *Application) (uint64, error) {
	query := `
		INSERT INTO applications (job_id, applicant_id, app_status, cover_letter)
		VALUES (:job_id, :applicant_id, :app_status, :cover_letter)`
	res, err := s.db.NamedExec(query, a)
	if err != nil {
		log.Printf("[ERROR] CreateApplication DB 에러: %v", err)
		return 0, err
	}
	id, _ := res.LastInsertId()
	return uint64(id), nil
}

// GetApplicationByID는 ID로 지원서 1개를 조회합니다. (없으면 nil, nil)
func (s *Store) GetApplicationByID(id uint64) (*Application, error) {
	var a Application
	query := `
		SELECT id, job_id, applicant_id, app_status,
			applied_at, updated_at, viewed_at, cover_letter
		FROM applications
		WHERE id = ?`
	err := s.db.Get(&a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetApplicationByID DB 에러: %v", err)
		return nil, err
	}
	return &a, nil
}

// HasApplied는 같은 공고에 대한 중복 지원 여부를 확인합니다.
func (s *Store) HasApplied(applicantID, jobID uint64) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM applications WHERE applicant_id = ? AND job_id = ?`
	if err := s.db.Get(&n, query, applicantID, jobID); err != nil {
		log.Printf("[ERROR] HasApplied DB 에러: %v", err)
		return false, err
	}
	return n > 0, nil
}

// UpdateCoverLetter는 지원서 내용을 수정합니다. (viewed_at 게이트는 서비스에서 검사)
func (s *Store) UpdateCoverLetter(id uint64, coverLetter string) error {
	_, err := s.db.Exec(`UPDATE applications SET cover_letter = ? WHERE id = ?`, coverLetter, id)
	if err != nil {
		log.Printf("[ERROR] UpdateCoverLetter DB 에러: %v", err)
	}
	return err
}

// MarkViewed는 viewed_at을 최초 1회만 찍습니다. (이미 찍혀 있으면 no-op)
func (s *Store) MarkViewed(id uint64) error {
	_, err := s.db.Exec(
		`UPDATE applications SET viewed_at = ? WHERE id = ? AND viewed_at IS NULL`,
		time.Now(), id)
	if err != nil {
		log.Printf("[ERROR] MarkViewed DB 에러: %v", err)
	}
	return err
}

// SetStatus는 지원서 상태를 전환합니다.
func (s *Store) SetStatus(id uint64, status string) error {
	res, err := s.db.Exec(`UPDATE applications SET app_status = ? WHERE id = ?`, status, id)
	if err != nil {
		log.Printf("[ERROR] SetStatus DB 에러: %v", err)
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListForApplicant는 지원자 본인의 지원 목록을 반환합니다.
func (s *Store) ListForApplicant(applicantID uint64) ([]ApplicationRow, error) {
	var rows []ApplicationRow
	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.app_status,
			a.applied_at, a.updated_at, a.viewed_at, a.cover_letter,
			j.job_title, ap.applicant_name, b.branch_name
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		JOIN applicant_profiles AS ap ON ap.id = a.applicant_id
		LEFT JOIN branches AS b ON b.id = j.branch_id
		WHERE a.applicant_id = ?
		ORDER BY a.applied_at DESC`
	err := s.db.Select(&rows, query, applicantID)
	if err != nil {
		log.Printf("[ERROR] ListForApplicant DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// ListForStaff는 스코프/상태 필터를 적용한 지원 목록을 반환합니다.
func (s *Store) ListForStaff(scope *uint64, statusFilter string) ([]ApplicationRow, error) {
	var rows []ApplicationRow
	var args []interface{}

	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.app_status,
			a.applied_at, a.updated_at, a.viewed_at, a.cover_letter,
			j.job_title, ap.applicant_name, b.branch_name
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		JOIN applicant_profiles AS ap ON ap.id = a.applicant_id
		LEFT JOIN branches AS b ON b.id = j.branch_id
		WHERE 1 = 1
	`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	if statusFilter != "" {
		query += " AND a.app_status = ? "
		args = append(args, statusFilter)
	}
	query += " ORDER BY a.applied_at DESC "

	err := s.db.Select(&rows, query, args...)
	if err != nil {
		log.Printf("[ERROR] ListForStaff DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// ApplicantContact는 알림 메일 수신자 정보입니다.
type ApplicantContact struct {
	Email         string `db:"email"`
	ApplicantName string `db:"applicant_name"`
}

// GetApplicantContact는 지원자 프로필 ID로 메일 수신자 정보를 조회합니다.
func (s *Store) GetApplicantContact(applicantID uint64) (*ApplicantContact, error) {
	var c ApplicantContact
	query := `
		SELECT u.email, ap.applicant_name
		FROM applicant_profiles AS ap
		JOIN users AS u ON u.id = ap.user_id
		WHERE ap.id = ?`
	err := s.db.Get(&c, query, applicantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetApplicantContact DB 에러: %v", err)
		return nil, err
	}
	return &c, nil
}

// --- 첨부 파일 ---

// CreateResume는 업로드 디스크립터를 영속화하고 생성된 ID를 돌려줍니다.
func (s *Store) CreateResume(r *Resume) (uint64, error) {
	query := `
		INSERT INTO resumes
			(applicant_id, original_name, stored_name, file_path, file_size, mime_type)
		VALUES
			(:applicant_id, :original_name, :stored_name, :file_path, :file_size, :mime_type)`
	res, err := s.db.NamedExec(query, r)
	if err != nil {
		log.Printf("[ERROR] CreateResume DB 에러: %v", err)
		return 0, err
	}
	id, _ := res.LastInsertId()
	return uint64(id), nil
}

// LinkResume는 지원서-첨부 조인 행을 INSERT합니다.
func (s *Store) LinkResume(applicationID, resumeID uint64) error {
	_, err := s.db.Exec(
		`INSERT INTO application_resumes (application_id, resume_id) VALUES (?, ?)`,
		applicationID, resumeID)
	if err != nil {
		log.Printf("[ERROR] LinkResume DB 에러: %v", err)
	}
	return err
}

// ListResumes는 지원서에 연결된 첨부 목록을 반환합니다.
func (s *Store) ListResumes(applicationID uint64) ([]Resume, error) {
	var rows []Resume
	query := `
		SELECT r.id, r.applicant_id, r.original_name, r.stored_name,
			r.file_path, r.file_size, r.mime_type, r.uploaded_at
		FROM resumes AS r
		JOIN application_resumes AS ar ON ar.resume_id = r.id
		WHERE ar.application_id = ?
		ORDER BY r.uploaded_at DESC`
	err := s.db.Select(&rows, query, applicationID)
	if err != nil {
		log.Printf("[ERROR] ListResumes DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// --- 대시보드 집계 쿼리 ---
// 각 쿼리는 독립적이며, 스코프가 있으면 공고 조인을 거쳐 지점 필터를 적용합니다.

// CountByStatus는 특정 상태의 지원서 수를 반환합니다.
func (s *Store) CountByStatus(status string, scope *uint64) (int, error) {
	var n int
	args := []interface{}{status}
	query := `
		SELECT COUNT(*)
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		WHERE a.app_status = ?`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	if err := s.db.Get(&n, query, args...); err != nil {
		log.Printf("[ERROR] CountByStatus DB 에러: %v", err)
		return 0, err
	}
	return n, nil
}

// CountSince는 기준 시각 이후 접수된 지원서 수를 반환합니다. (오늘/이번 주)
func (s *Store) CountSince(since time.Time, scope *uint64) (int, error) {
	var n int
	args := []interface{}{since}
	query := `
		SELECT COUNT(*)
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		WHERE a.applied_at >= ?`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	if err := s.db.Get(&n, query, args...); err != nil {
		log.Printf("[ERROR] CountSince DB 에러: %v", err)
		return 0, err
	}
	return n, nil
}

// CountAll은 스코프 내 전체 지원서 수를 반환합니다.
func (s *Store) CountAll(scope *uint64) (int, error) {
	var n int
	var args []interface{}
	query := `
		SELECT COUNT(*)
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		WHERE 1 = 1`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	if err := s.db.Get(&n, query, args...); err != nil {
		log.Printf("[ERROR] CountAll DB 에러: %v", err)
		return 0, err
	}
	return n, nil
}

// StatusCounts는 상태별 지원서 수를 반환합니다. (raw 상태 그대로,
// canonical 접기는 대시보드 서비스가 수행)
func (s *Store) StatusCounts(scope *uint64) ([]StatusCount, error) {
	var rows []StatusCount
	var args []interface{}
	query := `
		SELECT a.app_status, COUNT(*) AS cnt
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		WHERE 1 = 1`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += " GROUP BY a.app_status "
	if err := s.db.Select(&rows, query, args...); err != nil {
		log.Printf("[ERROR] StatusCounts DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// PerDayCounts는 기준 시각 이후의 일별 접수 건수를 반환합니다.
func (s *Store) PerDayCounts(since time.Time, scope *uint64) ([]DateCount, error) {
	var rows []DateCount
	args := []interface{}{since}
	query := `
		SELECT DATE_FORMAT(a.applied_at, '%Y-%m-%d') AS day, COUNT(*) AS cnt
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		WHERE a.applied_at >= ?`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += " GROUP BY day ORDER BY day ASC "
	if err := s.db.Select(&rows, query, args...); err != nil {
		log.Printf("[ERROR] PerDayCounts DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// TopJobs는 지원서 수 기준 상위 공고를 반환합니다. (동률은 제목 오름차순)
func (s *Store) TopJobs(limit int, scope *uint64) ([]JobCount, error) {
	var rows []JobCount
	var args []interface{}
	query := `
		SELECT j.job_title, COUNT(*) AS cnt
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		WHERE 1 = 1`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += " GROUP BY j.id, j.job_title ORDER BY cnt DESC, j.job_title ASC LIMIT ? "
	args = append(args, limit)
	if err := s.db.Select(&rows, query, args...); err != nil {
		log.Printf("[ERROR] TopJobs DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// BranchTotals는 지점별 지원서 총계 상위 N개를 반환합니다.
// (스코프가 "전 지점"일 때만 호출됩니다)
func (s *Store) BranchTotals(limit int) ([]BranchCount, error) {
	var rows []BranchCount
	query := `
		SELECT b.branch_name, COUNT(*) AS cnt
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		JOIN branches AS b ON b.id = j.branch_id
		GROUP BY b.id, b.branch_name
		ORDER BY cnt DESC, b.branch_name ASC
		LIMIT ?`
	if err := s.db.Select(&rows, query, limit); err != nil {
		log.Printf("[ERROR] BranchTotals DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// RecentApplications는 최근 활동 피드용 지원 항목을 반환합니다.
func (s *Store) RecentApplications(limit int, scope *uint64) ([]ActivityItem, error) {
	var rows []ActivityItem
	var args []interface{}
	query := `
		SELECT
			'application' AS kind,
			CONCAT(ap.applicant_name, ' → ', j.job_title) AS description,
			a.app_status AS status,
			a.applied_at AS occurred_at
		FROM applications AS a
		JOIN jobs AS j ON j.id = a.job_id
		JOIN applicant_profiles AS ap ON ap.id = a.applicant_id
		WHERE 1 = 1`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += " ORDER BY a.applied_at DESC LIMIT ? "
	args = append(args, limit)
	if err := s.db.Select(&rows, query, args...); err != nil {
		log.Printf("[ERROR] RecentApplications DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}
