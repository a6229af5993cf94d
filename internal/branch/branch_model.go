package branch

import (
	"time"
)

// Branch는 'branches' 테이블의 스키마입니다.
// 지점은 채용 공고와 HR 계정이 참조만 할 뿐 소유하지 않습니다.
type Branch struct {
	ID         uint64    `json:"id" db:"id"`
	BranchName string    `json:"branch_name" db:"branch_name"`
	Address    string    `json:"address" db:"address"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
