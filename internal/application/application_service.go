package application

import (
	"errors"
	"fmt"
	"log"

	"recruitdesk/internal/auth"
	"recruitdesk/internal/branch"
	"recruitdesk/internal/job"
	"recruitdesk/internal/mailer"
	"recruitdesk/internal/upload"
)

// ErrLocked는 HR이 이미 열람한 지원서에 대한 수정 시도입니다.
var ErrLocked = errors.New("application: already viewed by HR")

// ErrAttachmentRequired는 필수 서류가 지정된 공고에 대한 첨부 없는 제출입니다.
var ErrAttachmentRequired = errors.New("application: attachment required")

// AttachmentRemover는 지원서 영속화 실패 시 이미 저장된 업로드를 정리합니다.
// (upload.Validator가 구현)
type AttachmentRemover interface {
	Remove(*upload.Descriptor)
}

// Service는 'application' 기능의 비즈니스 로직을 담당합니다.
type Service struct {
	store    *Store
	jobStore *job.Store
	mail     *mailer.Mailer
	files    AttachmentRemover
}

// NewService는 Store들과 Mailer, 업로드 정리기를 받아 새 Service를 생성합니다.
func NewService(store *Store, jobStore *job.Store, mail *mailer.Mailer, files AttachmentRemover) *Service {
	return &Service{store: store, jobStore: jobStore, mail: mail, files: files}
}

// SubmitRequest는 지원서 제출 폼 데이터입니다.
type SubmitRequest struct {
	JobID       uint64
	CoverLetter string
	Attachment  *upload.Descriptor // 검증을 통과한 업로드 (없을 수 있음)
}

// Submit은 지원자가 열린 공고에 지원서를 제출합니다.
// applied_at은 DB 기본값, 상태는 pending, viewed_at은 NULL로 시작합니다.
func (s *Service) Submit(view *auth.UserView, req SubmitRequest) (uint64, error) {
	if view.Role != auth.RoleApplicant {
		return 0, errors.New("지원서 제출은 지원자 계정만 가능합니다")
	}

	j, err := s.jobStore.GetJobByID(req.JobID)
	if err != nil {
		return 0, err
	}
	if j == nil || j.JobStatus != job.StatusOpen {
		return 0, fmt.Errorf("지원할 수 없는 공고입니다 (ID: %d)", req.JobID)
	}
	// 필수 서류가 지정된 공고는 첨부 없는 제출을 거부
	if len(j.RequiredFileList()) > 0 && req.Attachment == nil {
		return 0, ErrAttachmentRequired
	}

	applied, err := s.store.HasApplied(view.ProfileID, req.JobID)
	if err != nil {
		return 0, err
	}
	if applied {
		return 0, errors.New("이미 지원한 공고입니다")
	}

	a := &Application{
		JobID:       req.JobID,
		ApplicantID: view.ProfileID,
		AppStatus:   StatusPending,
	}
	if req.CoverLetter != "" {
		a.CoverLetter = &req.CoverLetter
	}
	id, err := s.store.CreateApplication(a)
	if err != nil {
		return 0, err
	}

	if req.Attachment != nil {
		resumeID, err := s.store.CreateResume(&Resume{
			ApplicantID:  view.ProfileID,
			OriginalName: req.Attachment.OriginalName,
			StoredName:   req.Attachment.StoredName,
			FilePath:     req.Attachment.RelativePath,
			FileSize:     req.Attachment.Size,
			MimeType:     req.Attachment.ContentType,
		})
		if err != nil {
			// DB 행 없이 디스크에만 남는 파일은 고아가 되므로 즉시 정리
			log.Printf("[ERROR] 이력서 행 저장 실패, 업로드 파일 정리 (app=%d): %v", id, err)
			if s.files != nil {
				s.files.Remove(req.Attachment)
			}
		} else if err := s.store.LinkResume(id, resumeID); err != nil {
			log.Printf("[ERROR] 이력서 연결 실패 (app=%d resume=%d): %v", id, resumeID, err)
		}
	}

	s.mail.SendAsync(view.Email, "지원서 접수 완료",
		fmt.Sprintf("%s님, '%s' 공고에 대한 지원서가 접수되었습니다.\n", view.DisplayName, j.JobTitle), "")

	log.Printf("[INFO] 지원서 접수: applicant=%d job=%d", view.ProfileID, req.JobID)
	return id, nil
}

// Edit는 지원자가 본인 지원서를 수정합니다.
// viewed_at이 찍힌 뒤에는 ErrLocked로 거부합니다.
func (s *Service) Edit(view *auth.UserView, appID uint64, coverLetter string) error {
	a, err := s.ownApplication(view, appID)
	if err != nil {
		return err
	}
	if a.ViewedAt != nil {
		return ErrLocked
	}
	return s.store.UpdateCoverLetter(appID, coverLetter)
}

// Withdraw는 지원자가 본인 지원서를 철회합니다.
// 철회된 지원서는 목록/총계에는 남고, 상태 분포 차트에서만 제외됩니다.
func (s *Service) Withdraw(view *auth.UserView, appID uint64) error {
	a, err := s.ownApplication(view, appID)
	if err != nil {
		return err
	}
	if a.AppStatus == StatusHired {
		return errors.New("채용 확정된 지원서는 철회할 수 없습니다")
	}
	return s.store.SetStatus(appID, StatusWithdrawn)
}

// ViewForStaff는 HR이 지원서를 열람합니다. 최초 열람 시 viewed_at이 찍힙니다.
func (s *Service) ViewForStaff(view *auth.UserView, appID uint64) (*Application, []Resume, error) {
	a, err := s.staffApplication(view, appID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.MarkViewed(appID); err != nil {
		// 열람 스탬프 실패는 열람 자체를 막지 않음
		log.Printf("[WARN] viewed_at 스탬프 실패 (ID: %d): %v", appID, err)
	}
	resumes, err := s.store.ListResumes(appID)
	if err != nil {
		resumes = []Resume{}
	}
	return a, resumes, nil
}

// Transition은 HR이 지원서 상태를 전환합니다.
func (s *Service) Transition(view *auth.UserView, appID uint64, rawStatus string) error {
	status := CanonicalStatus(rawStatus)
	if !IsCanonicalStatus(status) {
		return fmt.Errorf("유효하지 않은 상태입니다: %s", rawStatus)
	}
	a, err := s.staffApplication(view, appID)
	if err != nil {
		return err
	}

	if err := s.store.SetStatus(appID, status); err != nil {
		return err
	}

	// 상태 변경 알림 (best-effort)
	if contact, err := s.store.GetApplicantContact(a.ApplicantID); err == nil && contact != nil {
		s.mail.SendAsync(contact.Email, "지원서 상태 변경 안내",
			fmt.Sprintf("%s님, 지원서 상태가 '%s'(으)로 변경되었습니다.\n", contact.ApplicantName, status), "")
	}
	return nil
}

// ListForApplicant는 본인 지원 목록을 반환합니다. (장애 시 빈 목록)
func (s *Service) ListForApplicant(view *auth.UserView) []ApplicationRow {
	rows, err := s.store.ListForApplicant(view.ProfileID)
	if err != nil {
		return []ApplicationRow{}
	}
	return rows
}

// ListForStaff는 스코프를 적용한 지원 목록을 반환합니다. (장애 시 빈 목록)
func (s *Service) ListForStaff(view *auth.UserView, explicitBranch *uint64, statusFilter string) []ApplicationRow {
	scope := branch.ResolveScope(view.Role, explicitBranch, view.BranchID)
	if statusFilter != "" {
		statusFilter = CanonicalStatus(statusFilter)
	}
	rows, err := s.store.ListForStaff(scope, statusFilter)
	if err != nil {
		return []ApplicationRow{}
	}
	return rows
}

// ownApplication은 본인 소유 여부까지 확인하고 지원서를 돌려줍니다.
func (s *Service) ownApplication(view *auth.UserView, appID uint64) (*Application, error) {
	a, err := s.store.GetApplicationByID(appID)
	if err != nil {
		return nil, err
	}
	if a == nil || a.ApplicantID != view.ProfileID {
		return nil, fmt.Errorf("지원서(ID: %d)를 찾을 수 없습니다", appID)
	}
	return a, nil
}

// staffApplication은 staff 권한과 지점 스코프를 확인하고 지원서를 돌려줍니다.
func (s *Service) staffApplication(view *auth.UserView, appID uint64) (*Application, error) {
	if !view.IsStaff() {
		return nil, errors.New("권한 없음: staff만 접근할 수 있습니다")
	}
	a, err := s.store.GetApplicationByID(appID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("지원서(ID: %d)를 찾을 수 없습니다", appID)
	}

	// 지점 소속 hr은 자기 지점(또는 전역) 공고의 지원서만
	if view.Role == auth.RoleHR && view.BranchID != nil {
		j, err := s.jobStore.GetJobByID(a.JobID)
		if err != nil {
			return nil, err
		}
		if j != nil && !branch.CanAccessJob(view.Role, view.BranchID, j.BranchID) {
			return nil, errors.New("권한 없음: 소속 지점의 지원서만 열람할 수 있습니다")
		}
	}
	return a, nil
}
