package interview

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitdesk/internal/application"
	"recruitdesk/internal/auth"
	"recruitdesk/internal/job"
	"recruitdesk/internal/mailer"
)

func uptr(v uint64) *uint64 { return &v }

// mockService는 면접/지원서/공고 Store를 각각의 sqlmock 위에 올린 Service를 만듭니다.
func mockService(t *testing.T) (*Service, sqlmock.Sqlmock, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	t.Helper()
	ivDb, ivMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { ivDb.Close() })

	appDb, appMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { appDb.Close() })

	jobDb, jobMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { jobDb.Close() })

	svc := NewService(
		NewStore(sqlx.NewDb(ivDb, "mysql")),
		application.NewStore(sqlx.NewDb(appDb, "mysql")),
		job.NewStore(sqlx.NewDb(jobDb, "mysql")),
		mailer.New(mailer.Config{}),
	)
	return svc, ivMock, appMock, jobMock
}

func applicationRow(id, jobID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "job_id", "applicant_id", "app_status",
		"applied_at", "updated_at", "viewed_at", "cover_letter",
	}).AddRow(id, jobID, 10, application.StatusPending, now, now, nil, nil)
}

func jobRow(id uint64, branchID *uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "job_title", "job_description", "branch_id", "job_status",
		"allowed_extensions", "max_upload_bytes", "required_file_types",
		"posted_by", "created_at", "updated_at",
	}).AddRow(id, "백엔드 엔지니어", "설명", branchID, job.StatusOpen, "pdf", 0, "", nil, now, now)
}

func TestScheduleRejectsOtherBranch(t *testing.T) {
	svc, ivMock, appMock, jobMock := mockService(t)

	appMock.ExpectQuery("SELECT (.+) FROM applications").
		WillReturnRows(applicationRow(4, 9))
	jobMock.ExpectQuery("SELECT (.+) FROM jobs").
		WillReturnRows(jobRow(9, uptr(2)))

	// 1번 지점 소속 hr이 2번 지점 공고의 지원서에 면접을 잡으려는 경우
	view := &auth.UserView{UserID: 1, Role: auth.RoleHR, BranchID: uptr(1), ProfileID: 3}
	_, err := svc.Schedule(view, ScheduleRequest{
		ApplicationID: 4,
		ScheduledAt:   time.Now().Add(24 * time.Hour),
		Location:      "본사 3층",
		Mode:          ModeOnsite,
	})

	assert.Error(t, err)
	// 면접 행이 INSERT되지 않아야 함
	assert.NoError(t, ivMock.ExpectationsWereMet())
	assert.NoError(t, appMock.ExpectationsWereMet())
}

func TestScheduleAllowsOwnBranch(t *testing.T) {
	svc, ivMock, appMock, jobMock := mockService(t)

	appMock.ExpectQuery("SELECT (.+) FROM applications").
		WillReturnRows(applicationRow(4, 9))
	jobMock.ExpectQuery("SELECT (.+) FROM jobs").
		WillReturnRows(jobRow(9, uptr(1)))
	ivMock.ExpectExec("INSERT INTO interviews").
		WillReturnResult(sqlmock.NewResult(3, 1))
	appMock.ExpectExec("UPDATE applications").
		WillReturnResult(sqlmock.NewResult(0, 1))
	appMock.ExpectQuery("SELECT (.+) FROM applicant_profiles").
		WillReturnError(sql.ErrNoRows)

	view := &auth.UserView{UserID: 1, Role: auth.RoleHR, BranchID: uptr(1), ProfileID: 3}
	id, err := svc.Schedule(view, ScheduleRequest{
		ApplicationID: 4,
		ScheduledAt:   time.Now().Add(24 * time.Hour),
		Location:      "지점 회의실",
		Mode:          ModeRemote,
	})

	assert.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.NoError(t, ivMock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsOtherBranch(t *testing.T) {
	svc, ivMock, appMock, jobMock := mockService(t)

	now := time.Now()
	ivMock.ExpectQuery("SELECT (.+) FROM interviews").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "application_id", "scheduled_at", "location",
			"interview_mode", "interview_status", "created_at",
		}).AddRow(6, 4, now.Add(24*time.Hour), "본사 3층", ModeOnsite, StatusScheduled, now))
	appMock.ExpectQuery("SELECT (.+) FROM applications").
		WillReturnRows(applicationRow(4, 9))
	jobMock.ExpectQuery("SELECT (.+) FROM jobs").
		WillReturnRows(jobRow(9, uptr(2)))

	view := &auth.UserView{UserID: 1, Role: auth.RoleHR, BranchID: uptr(1), ProfileID: 3}
	err := svc.UpdateStatus(view, 6, StatusCompleted)

	assert.Error(t, err)
	// UPDATE까지 도달하지 않아야 함
	assert.NoError(t, ivMock.ExpectationsWereMet())
}
