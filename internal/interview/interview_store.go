package interview

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"recruitdesk/internal/application"
	"recruitdesk/internal/branch"
)

// Store는 'interview' 기능의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// CreateInterview는 면접 일정을 INSERT하고 생성된 ID를 돌려줍니다.
func (s *Store) CreateInterview(iv *Interview) (uint64, error) {
	query := `
		INSERT INTO interviews
			(application_id, scheduled_at, location, interview_mode, interview_status)
		VALUES
			(:application_id, :scheduled_at, :location, :interview_mode, :interview_status)`
	res, err := s.db.NamedExec(query, iv)
	if err != nil {
		log.Printf("[ERROR] CreateInterview DB 에러: %v", err)
		return 0, err
	}
	id, _ := res.LastInsertId()
	return uint64(id), nil
}

// GetInterviewByID는 ID로 면접 1건을 조회합니다. (없으면 nil, nil)
func (s *Store) GetInterviewByID(id uint64) (*Interview, error) {
	var iv Interview
	query := `
		SELECT id, application_id, scheduled_at, location,
			interview_mode, interview_status, created_at
		FROM interviews
		WHERE id = ?`
	err := s.db.Get(&iv, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetInterviewByID DB 에러: %v", err)
		return nil, err
	}
	return &iv, nil
}

// UpdateInterview는 일정/장소/방식/상태를 수정합니다.
func (s *Store) UpdateInterview(iv *Interview) error {
	query := `
		UPDATE interviews
		SET scheduled_at = :scheduled_at,
			location = :location,
			interview_mode = :interview_mode,
			interview_status = :interview_status
		WHERE id = :id`
	res, err := s.db.NamedExec(query, iv)
	if err != nil {
		log.Printf("[ERROR] UpdateInterview DB 에러: %v", err)
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListForApplication은 지원서에 연결된 면접 목록을 반환합니다.
func (s *Store) ListForApplication(applicationID uint64) ([]Interview, error) {
	var rows []Interview
	query := `
		SELECT id, application_id, scheduled_at, location,
			interview_mode, interview_status, created_at
		FROM interviews
		WHERE application_id = ?
		ORDER BY scheduled_at ASC`
	err := s.db.Select(&rows, query, applicationID)
	if err != nil {
		log.Printf("[ERROR] ListForApplication DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// UpcomingInterviews는 다가오는 면접을 가까운 순으로 반환합니다. (대시보드용)
func (s *Store) UpcomingInterviews(limit int, scope *uint64) ([]InterviewRow, error) {
	var rows []InterviewRow
	var args []interface{}
	query := `
		SELECT
			iv.id, iv.application_id, iv.scheduled_at, iv.location,
			iv.interview_mode, iv.interview_status, iv.created_at,
			j.job_title, ap.applicant_name, u.email
		FROM interviews AS iv
		JOIN applications AS a ON a.id = iv.application_id
		JOIN jobs AS j ON j.id = a.job_id
		JOIN applicant_profiles AS ap ON ap.id = a.applicant_id
		JOIN users AS u ON u.id = ap.user_id
		WHERE iv.interview_status = 'scheduled' AND iv.scheduled_at >= NOW()`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += " ORDER BY iv.scheduled_at ASC LIMIT ? "
	args = append(args, limit)
	err := s.db.Select(&rows, query, args...)
	if err != nil {
		log.Printf("[ERROR] UpcomingInterviews DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// TodaysInterviews는 오늘 예정된 면접을 반환합니다. (스케줄러의 리마인더용)
func (s *Store) TodaysInterviews() ([]InterviewRow, error) {
	var rows []InterviewRow
	query := `
		SELECT
			iv.id, iv.application_id, iv.scheduled_at, iv.location,
			iv.interview_mode, iv.interview_status, iv.created_at,
			j.job_title, ap.applicant_name, u.email
		FROM interviews AS iv
		JOIN applications AS a ON a.id = iv.application_id
		JOIN jobs AS j ON j.id = a.job_id
		JOIN applicant_profiles AS ap ON ap.id = a.applicant_id
		JOIN users AS u ON u.id = ap.user_id
		WHERE iv.interview_status = 'scheduled'
			AND DATE(iv.scheduled_at) = CURDATE()
		ORDER BY iv.scheduled_at ASC`
	err := s.db.Select(&rows, query)
	if err != nil {
		log.Printf("[ERROR] TodaysInterviews DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}

// RecentInterviews는 최근 활동 피드용 면접 항목을 반환합니다.
func (s *Store) RecentInterviews(limit int, scope *uint64) ([]application.ActivityItem, error) {
	var rows []application.ActivityItem
	var args []interface{}
	query := `
		SELECT
			'interview' AS kind,
			CONCAT(ap.applicant_name, ' 면접 (', j.job_title, ')') AS description,
			iv.interview_status AS status,
			iv.created_at AS occurred_at
		FROM interviews AS iv
		JOIN applications AS a ON a.id = iv.application_id
		JOIN jobs AS j ON j.id = a.job_id
		JOIN applicant_profiles AS ap ON ap.id = a.applicant_id
		WHERE 1 = 1`
	if cond, condArgs := branch.ScopedJobCondition("j.branch_id", scope); cond != "" {
		query += " AND " + cond
		args = append(args, condArgs...)
	}
	query += " ORDER BY iv.created_at DESC LIMIT ? "
	args = append(args, limit)
	err := s.db.Select(&rows, query, args...)
	if err != nil {
		log.Printf("[ERROR] RecentInterviews DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}
