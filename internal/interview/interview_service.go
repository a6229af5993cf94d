package interview

import (
	"errors"
	"fmt"
	"time"

	"recruitdesk/internal/application"
	"recruitdesk/internal/auth"
	"recruitdesk/internal/branch"
	"recruitdesk/internal/job"
	"recruitdesk/internal/mailer"
)

// Service는 'interview' 기능의 비즈니스 로직을 담당합니다.
type Service struct {
	store    *Store
	appStore *application.Store
	jobStore *job.Store
	mail     *mailer.Mailer
}

// NewService는 Store들과 Mailer를 받아 새 Service를 생성합니다.
func NewService(store *Store, appStore *application.Store, jobStore *job.Store, mail *mailer.Mailer) *Service {
	return &Service{store: store, appStore: appStore, jobStore: jobStore, mail: mail}
}

// guardBranch는 지점 소속 hr이 타 지점 공고의 지원서에 면접을 잡지 못하게 막습니다.
// 지원서 열람/상태 전환과 같은 규칙입니다.
func (s *Service) guardBranch(view *auth.UserView, a *application.Application) error {
	if view.Role == auth.RoleHR && view.BranchID != nil {
		j, err := s.jobStore.GetJobByID(a.JobID)
		if err != nil {
			return err
		}
		if j != nil && !branch.CanAccessJob(view.Role, view.BranchID, j.BranchID) {
			return errors.New("권한 없음: 소속 지점의 지원서만 다룰 수 있습니다")
		}
	}
	return nil
}

// ScheduleRequest는 면접 일정 등록 폼 데이터입니다.
type ScheduleRequest struct {
	ApplicationID uint64
	ScheduledAt   time.Time
	Location      string
	Mode          string
}

// Schedule은 HR이 면접을 등록합니다. 지원서 상태는 scheduled로 전환되고
// 지원자에게 안내 메일이 발송됩니다.
func (s *Service) Schedule(view *auth.UserView, req ScheduleRequest) (uint64, error) {
	if !view.IsStaff() {
		return 0, errors.New("권한 없음: 면접 일정 등록은 staff만 가능합니다")
	}
	if req.ScheduledAt.Before(time.Now()) {
		return 0, errors.New("면접 일시는 미래여야 합니다")
	}
	mode := req.Mode
	if mode != ModeOnsite && mode != ModeRemote && mode != ModePhone {
		mode = ModeOnsite
	}

	a, err := s.appStore.GetApplicationByID(req.ApplicationID)
	if err != nil {
		return 0, err
	}
	if a == nil {
		return 0, fmt.Errorf("지원서(ID: %d)를 찾을 수 없습니다", req.ApplicationID)
	}
	if a.AppStatus == application.StatusWithdrawn {
		return 0, errors.New("철회된 지원서에는 면접을 잡을 수 없습니다")
	}
	if err := s.guardBranch(view, a); err != nil {
		return 0, err
	}

	id, err := s.store.CreateInterview(&Interview{
		ApplicationID: req.ApplicationID,
		ScheduledAt:   req.ScheduledAt,
		Location:      req.Location,
		Mode:          mode,
		Status:        StatusScheduled,
	})
	if err != nil {
		return 0, err
	}

	// 상태 전환과 알림은 best-effort (면접 행 자체는 이미 커밋됨)
	_ = s.appStore.SetStatus(req.ApplicationID, application.StatusScheduled)
	if contact, err := s.appStore.GetApplicantContact(a.ApplicantID); err == nil && contact != nil {
		s.mail.SendAsync(contact.Email, "면접 일정 안내",
			fmt.Sprintf("%s님, 면접이 %s (%s, %s)에 예정되었습니다.\n",
				contact.ApplicantName, req.ScheduledAt.Format("2006-01-02 15:04"), req.Location, mode), "")
	}
	return id, nil
}

// UpdateStatus는 면접을 완료/취소 처리합니다.
// 완료 시 지원서 상태는 interviewed로 전환됩니다.
func (s *Service) UpdateStatus(view *auth.UserView, interviewID uint64, status string) error {
	if !view.IsStaff() {
		return errors.New("권한 없음: 면접 상태 변경은 staff만 가능합니다")
	}
	if status != StatusCompleted && status != StatusCancelled && status != StatusScheduled {
		return fmt.Errorf("유효하지 않은 면접 상태입니다: %s", status)
	}
	iv, err := s.store.GetInterviewByID(interviewID)
	if err != nil {
		return err
	}
	if iv == nil {
		return fmt.Errorf("면접(ID: %d)을 찾을 수 없습니다", interviewID)
	}
	if a, err := s.appStore.GetApplicationByID(iv.ApplicationID); err != nil {
		return err
	} else if a != nil {
		if err := s.guardBranch(view, a); err != nil {
			return err
		}
	}
	iv.Status = status
	if err := s.store.UpdateInterview(iv); err != nil {
		return err
	}
	if status == StatusCompleted {
		_ = s.appStore.SetStatus(iv.ApplicationID, application.StatusInterviewed)
	}
	return nil
}

// SendReminders는 오늘 면접 대상자에게 리마인더 메일을 발송합니다.
// (스케줄러에서 호출)
func (s *Service) SendReminders() (int, error) {
	rows, err := s.store.TodaysInterviews()
	if err != nil {
		return 0, err
	}
	for _, iv := range rows {
		s.mail.SendAsync(iv.Email, "오늘 면접 리마인더",
			fmt.Sprintf("%s님, 오늘 %s에 '%s' 면접이 예정되어 있습니다. (%s)\n",
				iv.ApplicantName, iv.ScheduledAt.Format("15:04"), iv.JobTitle, iv.Location), "")
	}
	return len(rows), nil
}
