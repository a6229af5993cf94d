package branch

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Store는 'branch' 기능의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListBranches는 전체 지점 목록을 반환합니다.
func (s *Store) ListBranches() ([]Branch, error) {
	var branches []Branch
	query := `
		SELECT id, branch_name, address, created_at
		FROM branches
		ORDER BY branch_name ASC`
	err := s.db.Select(&branches, query)
	if err != nil {
		log.Printf("[ERROR] ListBranches DB 에러: %v", err)
		return nil, err
	}
	return branches, nil
}

// GetBranchByID는 ID로 지점 1개를 조회합니다. (없으면 nil, nil)
func (s *Store) GetBranchByID(id uint64) (*Branch, error) {
	var b Branch
	query := `SELECT id, branch_name, address, created_at FROM branches WHERE id = ?`
	err := s.db.Get(&b, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Printf("[ERROR] GetBranchByID DB 에러: %v", err)
		return nil, err
	}
	return &b, nil
}

// CreateBranch는 새 지점을 INSERT합니다.
func (s *Store) CreateBranch(b *Branch) (uint64, error) {
	query := `INSERT INTO branches (branch_name, address) VALUES (:branch_name, :address)`
	res, err := s.db.NamedExec(query, b)
	if err != nil {
		log.Printf("[ERROR] CreateBranch DB 에러: %v", err)
		return 0, err
	}
	id, _ := res.LastInsertId()
	return uint64(id), nil
}

// UpdateBranch는 지점 정보를 수정합니다.
func (s *Store) UpdateBranch(b *Branch) error {
	query := `UPDATE branches SET branch_name = :branch_name, address = :address WHERE id = :id`
	res, err := s.db.NamedExec(query, b)
	if err != nil {
		log.Printf("[ERROR] UpdateBranch DB 에러: %v", err)
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
