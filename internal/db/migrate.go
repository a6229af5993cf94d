package db

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
)

// migration은 버전 번호가 붙은 DDL 한 건입니다.
// (런타임 컬럼 존재 확인 대신, 버전 관리되는 스키마를 사용합니다)
type migration struct {
	Version int
	Stmts   []string
}

var migrations = []migration{
	{
		Version: 1,
		Stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				email VARCHAR(150) NOT NULL,
				password_hash VARCHAR(100) NOT NULL,
				role VARCHAR(20) NOT NULL DEFAULT 'applicant',
				is_active TINYINT(1) NOT NULL DEFAULT 1,
				last_login_at DATETIME NULL,
				last_logout_at DATETIME NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				PRIMARY KEY (id),
				UNIQUE KEY uq_users_email (email)
			)`,
			`CREATE TABLE IF NOT EXISTS branches (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				branch_name VARCHAR(100) NOT NULL,
				address VARCHAR(255) NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (id)
			)`,
			`CREATE TABLE IF NOT EXISTS staff_profiles (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				user_id BIGINT UNSIGNED NOT NULL,
				staff_name VARCHAR(100) NOT NULL,
				branch_id BIGINT UNSIGNED NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (id),
				UNIQUE KEY uq_staff_user (user_id),
				CONSTRAINT fk_staff_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
				CONSTRAINT fk_staff_branch FOREIGN KEY (branch_id) REFERENCES branches (id) ON DELETE SET NULL
			)`,
			`CREATE TABLE IF NOT EXISTS applicant_profiles (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				user_id BIGINT UNSIGNED NOT NULL,
				applicant_name VARCHAR(100) NOT NULL,
				verify_token VARCHAR(64) NULL,
				verify_expire_at DATETIME NULL,
				verified_at DATETIME NULL,
				profile_updated_at DATETIME NULL,
				PRIMARY KEY (id),
				UNIQUE KEY uq_applicant_user (user_id),
				CONSTRAINT fk_applicant_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS jobs (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				job_title VARCHAR(150) NOT NULL,
				job_description TEXT NOT NULL,
				branch_id BIGINT UNSIGNED NULL,
				job_status VARCHAR(10) NOT NULL DEFAULT 'open',
				allowed_extensions VARCHAR(100) NOT NULL DEFAULT '',
				max_upload_bytes BIGINT NOT NULL DEFAULT 0,
				posted_by BIGINT UNSIGNED NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				PRIMARY KEY (id),
				KEY idx_jobs_branch (branch_id),
				CONSTRAINT fk_jobs_branch FOREIGN KEY (branch_id) REFERENCES branches (id) ON DELETE SET NULL
			)`,
			`CREATE TABLE IF NOT EXISTS applications (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				job_id BIGINT UNSIGNED NOT NULL,
				applicant_id BIGINT UNSIGNED NOT NULL,
				app_status VARCHAR(20) NOT NULL DEFAULT 'pending',
				applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				viewed_at DATETIME NULL,
				PRIMARY KEY (id),
				KEY idx_app_job (job_id),
				KEY idx_app_applicant (applicant_id),
				CONSTRAINT fk_app_job FOREIGN KEY (job_id) REFERENCES jobs (id) ON DELETE CASCADE,
				CONSTRAINT fk_app_applicant FOREIGN KEY (applicant_id) REFERENCES applicant_profiles (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS interviews (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				application_id BIGINT UNSIGNED NOT NULL,
				scheduled_at DATETIME NOT NULL,
				location VARCHAR(200) NOT NULL DEFAULT '',
				interview_mode VARCHAR(10) NOT NULL DEFAULT 'onsite',
				interview_status VARCHAR(15) NOT NULL DEFAULT 'scheduled',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (id),
				KEY idx_iv_application (application_id),
				CONSTRAINT fk_iv_application FOREIGN KEY (application_id) REFERENCES applications (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS resumes (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				applicant_id BIGINT UNSIGNED NOT NULL,
				original_name VARCHAR(255) NOT NULL,
				stored_name VARCHAR(100) NOT NULL,
				file_path VARCHAR(255) NOT NULL,
				file_size BIGINT NOT NULL,
				mime_type VARCHAR(100) NOT NULL,
				uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (id),
				KEY idx_resume_applicant (applicant_id),
				CONSTRAINT fk_resume_applicant FOREIGN KEY (applicant_id) REFERENCES applicant_profiles (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS application_resumes (
				application_id BIGINT UNSIGNED NOT NULL,
				resume_id BIGINT UNSIGNED NOT NULL,
				PRIMARY KEY (application_id, resume_id),
				CONSTRAINT fk_ar_application FOREIGN KEY (application_id) REFERENCES applications (id) ON DELETE CASCADE,
				CONSTRAINT fk_ar_resume FOREIGN KEY (resume_id) REFERENCES resumes (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS auth_sessions (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				session_token VARCHAR(64) NOT NULL,
				user_id BIGINT UNSIGNED NOT NULL,
				expire_at DATETIME NOT NULL,
				is_active TINYINT(1) NOT NULL DEFAULT 1,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (id),
				UNIQUE KEY uq_session_token (session_token),
				KEY idx_session_user (user_id),
				CONSTRAINT fk_session_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS activity_logs (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				action VARCHAR(50) NOT NULL,
				target_table VARCHAR(50) NOT NULL,
				target_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
				actor_id BIGINT UNSIGNED NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (id),
				KEY idx_log_actor (actor_id)
			)`,
		},
	},
	{
		// 초기 개발 리비전과의 호환 패치 (이미 반영된 DB에서는 duplicate column으로 무시됨)
		Version: 2,
		Stmts: []string{
			`ALTER TABLE jobs ADD COLUMN required_file_types VARCHAR(100) NOT NULL DEFAULT 'resume'`,
			`ALTER TABLE applications ADD COLUMN cover_letter TEXT NULL`,
		},
	},
}

// Migrate는 아직 적용되지 않은 버전의 DDL을 순서대로 적용합니다.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT NOT NULL,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (version)
	)`)
	if err != nil {
		return err
	}

	var current int
	if err := db.Get(&current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		for _, stmt := range m.Stmts {
			if _, err := db.Exec(stmt); err != nil && !isDuplicateErr(err) {
				log.Printf("[ERROR] 마이그레이션 v%d 실패: %v", m.Version, err)
				return err
			}
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			return err
		}
		log.Printf("[INFO] 스키마 마이그레이션 v%d 적용 완료", m.Version)
	}
	return nil
}

func isDuplicateErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
