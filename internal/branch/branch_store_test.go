package branch

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBranchReturnsInsertedID(t *testing.T) {
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDb.Close()

	store := NewStore(sqlx.NewDb(mockDb, "mysql"))

	// 감사 로그가 생성된 행을 가리킬 수 있도록 INSERT ID를 그대로 돌려줘야 함
	mock.ExpectExec("INSERT INTO branches").
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := store.CreateBranch(&Branch{BranchName: "강남지점", Address: "서울 강남구"})
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
