package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"

	"recruitdesk/internal/auth"
	"recruitdesk/internal/interview"
)

// Scheduler는 백그라운드 유지보수 작업을 담당합니다.
type Scheduler struct {
	cron             *cron.Cron
	authStore        *auth.Store
	interviewService *interview.Service
}

// NewScheduler는 새 스케줄러를 생성합니다.
func NewScheduler(as *auth.Store, ivSvc *interview.Service) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		authStore:        as,
		interviewService: ivSvc,
	}
}

// Start는 주기 작업을 등록하고 cron을 시작합니다.
func (s *Scheduler) Start() {
	log.Println("[INFO] Recruitdesk 스케줄러가 시작됩니다...")
	s.cron.AddFunc("@every 1h", s.expireStaleSessions)
	s.cron.AddFunc("0 8 * * *", s.sendInterviewReminders)
	s.cron.Start()
}

// Stop은 cron을 중지합니다.
func (s *Scheduler) Stop() {
	log.Println("[INFO] Recruitdesk 스케줄러가 중지됩니다...")
	s.cron.Stop()
}

// expireStaleSessions는 만료일이 지난 인증 세션을 비활성 처리합니다.
func (s *Scheduler) expireStaleSessions() {
	n, err := s.authStore.ExpireStaleSessions()
	if err != nil {
		log.Printf("[ERROR] [Scheduler] 세션 만료 처리 실패: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[INFO] [Scheduler] 만료된 인증 세션 %d건 비활성 처리", n)
	}
}

// sendInterviewReminders는 오늘 면접 대상자에게 리마인더를 발송합니다.
func (s *Scheduler) sendInterviewReminders() {
	n, err := s.interviewService.SendReminders()
	if err != nil {
		log.Printf("[ERROR] [Scheduler] 면접 리마인더 발송 실패: %v", err)
		return
	}
	log.Printf("[INFO] [Scheduler] 면접 리마인더 %d건 발송", n)
}
