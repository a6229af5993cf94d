package activity

import (
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Log는 'activity_logs' 테이블의 스키마입니다. (append-only 감사 기록)
type Log struct {
	ID          uint64    `json:"id" db:"id"`
	Action      string    `json:"action" db:"action"`
	TargetTable string    `json:"target_table" db:"target_table"`
	TargetID    uint64    `json:"target_id" db:"target_id"`
	ActorID     uint64    `json:"actor_id" db:"actor_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Store는 감사 로그의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Record는 관리자/HR 조작 1건을 기록합니다.
// 감사 기록 실패가 원래 조작을 실패시키면 안 되므로 에러는 로그로만 남깁니다.
func (s *Store) Record(actorID uint64, action, targetTable string, targetID uint64) {
	query := `
		INSERT INTO activity_logs (action, target_table, target_id, actor_id)
		VALUES (?, ?, ?, ?)`
	if _, err := s.db.Exec(query, action, targetTable, targetID, actorID); err != nil {
		log.Printf("[ERROR] 감사 로그 기록 실패 (%s %s/%d): %v", action, targetTable, targetID, err)
	}
}

// RecentLogs는 최근 감사 기록 N건을 반환합니다. (관리자 화면용)
func (s *Store) RecentLogs(limit int) ([]Log, error) {
	var rows []Log
	query := `
		SELECT id, action, target_table, target_id, actor_id, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT ?`
	err := s.db.Select(&rows, query, limit)
	if err != nil {
		log.Printf("[ERROR] RecentLogs DB 에러: %v", err)
		return nil, err
	}
	return rows, nil
}
