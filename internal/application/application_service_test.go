package application

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitdesk/internal/auth"
	"recruitdesk/internal/job"
	"recruitdesk/internal/mailer"
	"recruitdesk/internal/upload"
)

// mockStores는 지원서/공고 Store를 각각의 sqlmock 위에 올립니다.
func mockStores(t *testing.T) (*Store, sqlmock.Sqlmock, *job.Store, sqlmock.Sqlmock) {
	t.Helper()
	appDb, appMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { appDb.Close() })

	jobDb, jobMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { jobDb.Close() })

	return NewStore(sqlx.NewDb(appDb, "mysql")), appMock,
		job.NewStore(sqlx.NewDb(jobDb, "mysql")), jobMock
}

func jobRowColumns() []string {
	return []string{
		"id", "job_title", "job_description", "branch_id", "job_status",
		"allowed_extensions", "max_upload_bytes", "required_file_types",
		"posted_by", "created_at", "updated_at",
	}
}

type fakeRemover struct {
	removed []*upload.Descriptor
}

func (f *fakeRemover) Remove(d *upload.Descriptor) { f.removed = append(f.removed, d) }

func TestSubmitRequiresAttachment(t *testing.T) {
	appStore, _, jobStore, jobMock := mockStores(t)

	now := time.Now()
	jobMock.ExpectQuery("SELECT (.+) FROM jobs").
		WillReturnRows(sqlmock.NewRows(jobRowColumns()).
			AddRow(1, "백엔드 엔지니어", "설명", nil, job.StatusOpen, "pdf", 0, "resume", nil, now, now))

	svc := NewService(appStore, jobStore, mailer.New(mailer.Config{}), &fakeRemover{})
	view := &auth.UserView{UserID: 1, Role: auth.RoleApplicant, ProfileID: 10, Email: "a@example.com"}

	// 필수 서류가 지정된 공고에 첨부 없이 제출하면 거부
	_, err := svc.Submit(view, SubmitRequest{JobID: 1, CoverLetter: "지원합니다"})
	assert.ErrorIs(t, err, ErrAttachmentRequired)
	assert.NoError(t, jobMock.ExpectationsWereMet())
}

func TestSubmitAllowsNoAttachmentWhenNotRequired(t *testing.T) {
	appStore, appMock, jobStore, jobMock := mockStores(t)

	now := time.Now()
	jobMock.ExpectQuery("SELECT (.+) FROM jobs").
		WillReturnRows(sqlmock.NewRows(jobRowColumns()).
			AddRow(1, "백엔드 엔지니어", "설명", nil, job.StatusOpen, "pdf", 0, "", nil, now, now))
	appMock.ExpectQuery("SELECT COUNT(.+) FROM applications").
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(0))
	appMock.ExpectExec("INSERT INTO applications").
		WillReturnResult(sqlmock.NewResult(7, 1))

	svc := NewService(appStore, jobStore, mailer.New(mailer.Config{}), &fakeRemover{})
	view := &auth.UserView{UserID: 1, Role: auth.RoleApplicant, ProfileID: 10, Email: "a@example.com"}

	id, err := svc.Submit(view, SubmitRequest{JobID: 1, CoverLetter: "지원합니다"})
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, appMock.ExpectationsWereMet())
}

func TestSubmitCleansUpWhenResumePersistFails(t *testing.T) {
	appStore, appMock, jobStore, jobMock := mockStores(t)

	now := time.Now()
	jobMock.ExpectQuery("SELECT (.+) FROM jobs").
		WillReturnRows(sqlmock.NewRows(jobRowColumns()).
			AddRow(1, "백엔드 엔지니어", "설명", nil, job.StatusOpen, "pdf", 0, "resume", nil, now, now))
	appMock.ExpectQuery("SELECT COUNT(.+) FROM applications").
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(0))
	appMock.ExpectExec("INSERT INTO applications").
		WillReturnResult(sqlmock.NewResult(11, 1))
	appMock.ExpectExec("INSERT INTO resumes").
		WillReturnError(errors.New("duplicate key"))

	remover := &fakeRemover{}
	svc := NewService(appStore, jobStore, mailer.New(mailer.Config{}), remover)
	view := &auth.UserView{UserID: 1, Role: auth.RoleApplicant, ProfileID: 10, Email: "a@example.com"}

	desc := &upload.Descriptor{
		OriginalName: "resume.pdf",
		StoredName:   "abc.pdf",
		RelativePath: "abc.pdf",
		Size:         1024,
		ContentType:  "application/pdf",
	}
	id, err := svc.Submit(view, SubmitRequest{JobID: 1, Attachment: desc})

	// 지원서 자체는 접수되고, 디스크에 남을 뻔한 파일은 정리돼야 함
	assert.NoError(t, err)
	assert.Equal(t, uint64(11), id)
	require.Len(t, remover.removed, 1)
	assert.Same(t, desc, remover.removed[0])
	assert.NoError(t, appMock.ExpectationsWereMet())
}
