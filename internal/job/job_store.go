package job

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"recruitdesk/internal/branch"
)

// Store는 'job' 기능의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListJobs는 지점 스코프를 적용한 공고 목록을 반환합니다.
// 스코프가 있어도 전역 공고(branch_id IS NULL)는 항상 포함됩니다.
func (s *Store) ListJobs(scope *uint64, openOnly bool) ([]JobRow, error) {
	var jobs []JobRow
	var args []interface{}

	query := `
		SELECT
			j.id, j.job_title, j.job_description, j.branch_id, j.job_status,
			j.allowed_extensions, j.max_upload_bytes, j.required_file_types,
			j.posted_by, j.created_at, j.updated_at,
			b.branch_name
		FROM jobs AS j
		LEFT JOIN branches AS b ON b.id = j.branch_id
		WHERE 1 = 1
	`
	if openOnly {
		query += " AND j.job_status = ? "
		args = append(args, StatusOpen)
	}
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += " ORDER BY j.created_at DESC "

	err := s.db.Select(&jobs, query, args...)
	if err != nil {
		log.Printf("[ERROR] ListJobs DB 에러: %v", err)
		return nil, err
	}
	return jobs, nil
}

// GetJobByID는 ID로 공고 1개를 조회합니다. (없으면 nil, nil)
func (s *Store) GetJobByID(id uint64) (*Job, error) {
	var j Job
	query := `
		SELECT id, job_title, job_description, branch_id, job_status,
			allowed_extensions, max_upload_bytes, required_file_types,
			posted_by, created_at, updated_at
		FROM jobs
		WHERE id = ?`
	err := s.db.Get(&j, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetJobByID DB 에러: %v", err)
		return nil, err
	}
	return &j, nil
}

// CreateJob은 새 공고를 INSERT하고 생성된 ID를 돌려줍니다.
func (s *Store) CreateJob(j *Job) (uint64, error) {
	query := `
		INSERT INTO jobs (
			job_title, job_description, branch_id, job_status,
			allowed_extensions, max_upload_bytes, required_file_types, posted_by
		) VALUES (
			:job_title, :job_description, :branch_id, :job_status,
			:allowed_extensions, :max_upload_bytes, :required_file_types, :posted_by
		)`
	res, err := s.db.NamedExec(query, j)
	if err != nil {
		log.Printf("[ERROR] CreateJob DB 에러: %v", err)
		return 0, err
	}
	id, _ := res.LastInsertId()
	return uint64(id), nil
}

// UpdateJob은 공고 내용을 수정합니다.
func (s *Store) UpdateJob(j *Job) error {
	query := `
		UPDATE jobs
		SET
			job_title = :job_title,
			job_description = :job_description,
			branch_id = :branch_id,
			job_status = :job_status,
			allowed_extensions = :allowed_extensions,
			max_upload_bytes = :max_upload_bytes,
			required_file_types = :required_file_types
		WHERE id = :id`
	res, err := s.db.NamedExec(query, j)
	if err != nil {
		log.Printf("[ERROR] UpdateJob DB 에러: %v", err)
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetJobStatus는 공고를 open/closed로 전환합니다.
func (s *Store) SetJobStatus(id uint64, status string) error {
	res, err := s.db.Exec(`UPDATE jobs SET job_status = ? WHERE id = ?`, status, id)
	if err != nil {
		log.Printf("[ERROR] SetJobStatus DB 에러: %v", err)
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecentJobs는 최근 활동 피드용 공고 항목을 반환합니다.
func (s *Store) RecentJobs(limit int, scope *uint64) ([]ActivityRow, error) {
	var rows []ActivityRow
	var args []interface{}
	query := `
		SELECT
			'job' AS kind,
			CONCAT('새 공고: ', j.job_title) AS description,
			j.job_status AS status,
			j.created_at AS occurred_at
		FROM jobs AS j
		WHERE 1 = 1`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += " ORDER BY j.created_at DESC LIMIT ? "
	args = append(args, limit)
	if err := s.db.Select(&rows, query, args...); err != nil {
		log.Printf("[ERROR] RecentJobs DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// CountOpenJobs는 스코프 내 열린 공고 수를 반환합니다. (대시보드용)
func (s *Store) CountOpenJobs(scope *uint64) (int, error) {
	var n int
	args := []interface{}{StatusOpen}
	query := `SELECT COUNT(*) FROM jobs AS j WHERE j.job_status = ?`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	err := s.db.Get(&n, query, args...)
	if err != nil {
		log.Printf("[ERROR] CountOpenJobs DB 에러: %v", err)
		return 0, err
	}
	return n, nil
}
