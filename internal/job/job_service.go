package job

import (
	"errors"
	"fmt"
	"log"

	"recruitdesk/internal/auth"
	"recruitdesk/internal/branch"
)

// Service는 'job' 기능의 비즈니스 로직을 담당합니다.
type Service struct {
	store *Store
}

// NewService는 Store를 받아 새 Service를 생성합니다.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ListVisibleJobs는 사용자 스코프를 적용해 공고 목록을 조회합니다.
// 지원자에게는 열린 공고만 보입니다.
func (s *Service) ListVisibleJobs(view *auth.UserView, explicitBranch *uint64) ([]JobRow, error) {
	scope := branch.ResolveScope(view.Role, explicitBranch, view.BranchID)
	openOnly := !view.IsStaff()
	jobs, err := s.store.ListJobs(scope, openOnly)
	if err != nil {
		// 읽기 경로는 안전한 기본값(빈 목록)으로 강등
		log.Printf("[ERROR] ListVisibleJobs 실패, 빈 목록 반환: %v", err)
		return []JobRow{}, nil
	}
	return jobs, nil
}

// GetOpenJob은 지원 가능한(열린) 공고를 조회합니다.
func (s *Service) GetOpenJob(id uint64) (*Job, error) {
	j, err := s.store.GetJobByID(id)
	if err != nil {
		return nil, err
	}
	if j == nil || j.JobStatus != StatusOpen {
		return nil, nil
	}
	return j, nil
}

// SaveRequest는 공고 생성/수정 폼 데이터입니다.
type SaveRequest struct {
	Title             string
	Description       string
	BranchID          *uint64
	AllowedExtensions string
	MaxUploadBytes    int64
	RequiredFileTypes string
}

// CreateJob은 staff가 새 공고를 등록합니다.
// 지점 소속 hr은 자기 지점(또는 전역이 아닌 다른 지점 불가) 공고만 만들 수 있습니다.
func (s *Service) CreateJob(view *auth.UserView, req SaveRequest) (uint64, error) {
	if !view.IsStaff() {
		return 0, errors.New("권한 없음: 공고 등록은 staff만 가능합니다")
	}
	if req.Title == "" {
		return 0, errors.New("공고 제목은 필수입니다")
	}
	if err := s.checkBranchAllowed(view, req.BranchID); err != nil {
		return 0, err
	}

	userID := view.UserID
	return s.store.CreateJob(&Job{
		JobTitle:          req.Title,
		JobDescription:    req.Description,
		BranchID:          req.BranchID,
		JobStatus:         StatusOpen,
		AllowedExtensions: req.AllowedExtensions,
		MaxUploadBytes:    req.MaxUploadBytes,
		RequiredFileTypes: req.RequiredFileTypes,
		PostedBy:          &userID,
	})
}

// UpdateJob은 기존 공고를 수정합니다.
func (s *Service) UpdateJob(view *auth.UserView, id uint64, req SaveRequest) error {
	if !view.IsStaff() {
		return errors.New("권한 없음: 공고 수정은 staff만 가능합니다")
	}
	existing, err := s.store.GetJobByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("공고(ID: %d)를 찾을 수 없습니다", id)
	}
	if err := s.checkBranchAllowed(view, existing.BranchID); err != nil {
		return err
	}
	if err := s.checkBranchAllowed(view, req.BranchID); err != nil {
		return err
	}

	existing.JobTitle = req.Title
	existing.JobDescription = req.Description
	existing.BranchID = req.BranchID
	existing.AllowedExtensions = req.AllowedExtensions
	existing.MaxUploadBytes = req.MaxUploadBytes
	existing.RequiredFileTypes = req.RequiredFileTypes
	return s.store.UpdateJob(existing)
}

// CloseJob은 공고를 마감합니다.
func (s *Service) CloseJob(view *auth.UserView, id uint64) error {
	if !view.IsStaff() {
		return errors.New("권한 없음: 공고 마감은 staff만 가능합니다")
	}
	existing, err := s.store.GetJobByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("공고(ID: %d)를 찾을 수 없습니다", id)
	}
	if err := s.checkBranchAllowed(view, existing.BranchID); err != nil {
		return err
	}
	return s.store.SetJobStatus(id, StatusClosed)
}

// checkBranchAllowed는 지점 소속 hr이 타 지점 공고를 다루지 못하게 막습니다.
// 전역 공고(nil)는 admin과 소속 없는 hr만 다룰 수 있습니다.
func (s *Service) checkBranchAllowed(view *auth.UserView, target *uint64) error {
	if view.IsAdmin() || view.BranchID == nil {
		return nil
	}
	if target == nil || *target != *view.BranchID {
		return errors.New("권한 없음: 소속 지점의 공고만 다룰 수 있습니다")
	}
	return nil
}
