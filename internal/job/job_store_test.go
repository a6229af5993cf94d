package job

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentJobs(t *testing.T) {
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDb.Close()

	store := NewStore(sqlx.NewDb(mockDb, "mysql"))

	first := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	second := first.Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM jobs AS j").
		WillReturnRows(sqlmock.NewRows([]string{"kind", "description", "status", "occurred_at"}).
			AddRow("job", "새 공고: 백엔드 엔지니어", StatusOpen, first).
			AddRow("job", "새 공고: 디자이너", StatusClosed, second))

	rows, err := store.RecentJobs(10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// 피드 병합에서 쓰는 모양 그대로: kind는 'job', 시각은 공고 생성 시각
	assert.Equal(t, "job", rows[0].Kind)
	assert.Equal(t, "새 공고: 백엔드 엔지니어", rows[0].Description)
	assert.Equal(t, StatusOpen, rows[0].Status)
	assert.Equal(t, first, rows[0].OccurredAt)
	assert.Equal(t, "새 공고: 디자이너", rows[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}
