package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"recruitdesk/internal/mailer"
)

// ErrStoreUnavailable은 스토어 연결 장애를 나타냅니다.
// (호출자(미들웨어)가 세션 캐시 폴백 여부를 결정합니다)
var ErrStoreUnavailable = errors.New("auth: store unavailable")

// ErrInvalidCredentials는 이메일/비밀번호 불일치입니다.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// 인증 세션의 만료 시간 (24시간)
const sessionTTL = 24 * time.Hour

// SessionState는 쿠키 세션(fiber session)에 대한 최소 인터페이스입니다.
// (컴포넌트는 전역 조회 대신 이 상태를 명시적으로 전달받습니다)
type SessionState interface {
	Get(key string) interface{}
	Set(key string, value interface{})
	Delete(key string)
	Save() error
	Destroy() error
}

// Service는 'auth' 기능의 비즈니스 로직을 담당합니다.
type Service struct {
	store *Store
	mail  *mailer.Mailer
}

// NewService는 Store와 Mailer를 받아 새 Service를 생성합니다.
func NewService(store *Store, mail *mailer.Mailer) *Service {
	return &Service{store: store, mail: mail}
}

// --- 자격 증명 ---

// HashPassword는 bcrypt 해시를 생성합니다.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword는 평문 비밀번호를 해시와 대조합니다.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NormalizeRole은 역할 라벨을 canonical 소문자 태그로 정규화합니다.
func NormalizeRole(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "superadmin", "administrator":
		return RoleAdmin
	case "hr", "staff", "recruiter":
		return RoleHR
	case "applicant", "candidate":
		return RoleApplicant
	default:
		// 알 수 없는 라벨은 최소 권한으로
		return RoleApplicant
	}
}

// Authenticate는 이메일/비밀번호를 검증하고 사용자 행을 반환합니다.
func (s *Service) Authenticate(email, password string) (*User, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(user.PasswordHash, password) {
		log.Printf("[INFO] 로그인 실패: 비밀번호 불일치 (%s)", email)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// --- 세션 수립/해석/파기 ---

// Login은 인증 세션을 수립하고 토큰을 반환합니다.
// DB 기록은 best-effort입니다: 실패해도 로그만 남기고 로그인은 완료됩니다.
func (s *Service) Login(sess SessionState, user *User) string {
	role := NormalizeRole(user.Role)
	token := uuid.NewString()

	if err := s.store.CreateAuthSession(&AuthSession{
		SessionToken: token,
		UserID:       user.ID,
		ExpireAt:     time.Now().Add(sessionTTL),
		IsActive:     true,
	}); err != nil {
		log.Printf("[WARN] 인증 세션 기록 실패 (계속 진행): %v", err)
	}
	// last_login_at 갱신도 best-effort
	_ = s.store.TouchLastLogin(user.ID)

	view := s.buildView(user, role)

	writeViewToSession(sess, view)
	sess.Set("session_token", token)
	if err := sess.Save(); err != nil {
		log.Printf("[ERROR] 로그인 세션 저장 실패: %v", err)
	}

	log.Printf("[INFO] 로그인 성공: %s (role=%s)", user.Email, role)
	return token
}

// ResolveCurrentUser는 세션 상태로부터 "현재 사용자"를 해석합니다.
//   - 로그인 플래그가 없으면 (nil, nil): 비로그인
//   - 계정이 없거나 비활성이면 강제 로그아웃 후 (nil, nil)
//   - 스토어 장애 시 세션 캐시 뷰와 함께 ErrStoreUnavailable 반환
//
// 프로필(DB)이 세션 캐시보다 항상 우선하며, 보정된 값은 세션에 재기록됩니다.
func (s *Service) ResolveCurrentUser(sess SessionState) (*UserView, error) {
	if logged, ok := sess.Get("logged_in").(bool); !ok || !logged {
		return nil, nil
	}
	cached := readViewFromSession(sess)

	user, err := s.store.GetUserByID(cached.UserID)
	if err != nil {
		return cached, ErrStoreUnavailable
	}
	if user == nil || !user.IsActive {
		log.Printf("[WARN] 세션이 가리키는 계정이 없거나 비활성: user_id=%d", cached.UserID)
		s.Logout(sess)
		return nil, nil
	}

	view := s.buildView(user, NormalizeRole(user.Role))

	// 보정 값 세션 재기록 (역할/지점이 바뀌었을 수 있음)
	writeViewToSession(sess, view)
	if err := sess.Save(); err != nil {
		log.Printf("[WARN] 세션 보정 저장 실패: %v", err)
	}
	return view, nil
}

// Logout은 인증 세션을 비활성 처리하고 쿠키 세션을 파기합니다.
// 활성 세션 없이 호출해도 no-op입니다.
func (s *Service) Logout(sess SessionState) {
	if token, ok := sess.Get("session_token").(string); ok && token != "" {
		if err := s.store.DeactivateAuthSession(token); err != nil {
			log.Printf("[WARN] 로그아웃: 세션 비활성 처리 실패: %v", err)
		}
	}
	if userID, ok := sess.Get("user_id").(uint64); ok && userID > 0 {
		_ = s.store.TouchLastLogout(userID)
	}
	if err := sess.Destroy(); err != nil {
		log.Printf("[WARN] 로그아웃: 쿠키 세션 파기 실패: %v", err)
	}
}

// buildView는 DB의 사용자+프로필로 UserView를 구성합니다.
// 프로필 조회가 실패해도 최소 정보(이메일 기반)로 동작합니다.
func (s *Service) buildView(user *User, role string) *UserView {
	view := &UserView{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        role,
		DisplayName: user.Email,
	}
	switch role {
	case RoleAdmin, RoleHR:
		profile, err := s.store.GetStaffProfile(user.ID)
		if err == nil && profile != nil {
			view.DisplayName = profile.StaffName
			view.BranchID = profile.BranchID
			view.ProfileID = profile.ID
		}
	default:
		profile, err := s.store.GetApplicantProfile(user.ID)
		if err == nil && profile != nil {
			view.DisplayName = profile.ApplicantName
			view.ProfileID = profile.ID
			view.Verified = profile.VerifiedAt != nil
		}
	}
	return view
}

func writeViewToSession(sess SessionState, v *UserView) {
	sess.Set("logged_in", true)
	sess.Set("user_id", v.UserID)
	sess.Set("user_email", v.Email)
	sess.Set("user_role", v.Role)
	sess.Set("user_name", v.DisplayName)
	sess.Set("profile_id", v.ProfileID)
	sess.Set("verified", v.Verified)
	if v.BranchID != nil {
		sess.Set("branch_id", *v.BranchID)
	} else {
		sess.Set("branch_id", uint64(0))
	}
}

func readViewFromSession(sess SessionState) *UserView {
	view := &UserView{}
	if id, ok := sess.Get("user_id").(uint64); ok {
		view.UserID = id
	}
	if email, ok := sess.Get("user_email").(string); ok {
		view.Email = email
	}
	if role, ok := sess.Get("user_role").(string); ok {
		view.Role = NormalizeRole(role)
	}
	if name, ok := sess.Get("user_name").(string); ok {
		view.DisplayName = name
	}
	if pid, ok := sess.Get("profile_id").(uint64); ok {
		view.ProfileID = pid
	}
	if verified, ok := sess.Get("verified").(bool); ok {
		view.Verified = verified
	}
	if bid, ok := sess.Get("branch_id").(uint64); ok && bid > 0 {
		view.BranchID = &bid
	}
	return view
}

// --- 가입/프로비저닝 ---

// RegisterApplicantRequest는 지원자 가입 폼 데이터입니다.
type RegisterApplicantRequest struct {
	Name     string
	Email    string
	Password string
}

// RegisterApplicant는 지원자 계정+프로필을 생성하고 인증 메일을 발송합니다.
func (s *Service) RegisterApplicant(req RegisterApplicantRequest) (*User, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         RoleApplicant,
		IsActive:     true,
	}
	id, err := s.store.CreateUser(user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	token := uuid.NewString()
	expire := time.Now().Add(24 * time.Hour)
	if err := s.store.CreateApplicantProfile(&ApplicantProfile{
		UserID:         id,
		ApplicantName:  req.Name,
		VerifyToken:    &token,
		VerifyExpireAt: &expire,
	}); err != nil {
		return nil, err
	}

	s.mail.SendAsync(user.Email, "이메일 인증 안내",
		fmt.Sprintf("안녕하세요 %s님,\n\n아래 토큰으로 24시간 내에 이메일 인증을 완료해 주세요.\n\n%s\n", req.Name, token), "")
	return user, nil
}

// VerifyApplicant는 인증 토큰을 검증 처리합니다.
func (s *Service) VerifyApplicant(token string) error {
	return s.store.VerifyApplicant(token)
}

// ProvisionStaffRequest는 관리자의 staff 계정 생성 폼 데이터입니다.
type ProvisionStaffRequest struct {
	Name     string
	Email    string
	Password string
	Role     string  // admin 또는 hr
	BranchID *uint64 // NULL이면 전 지점
}

// ProvisionStaff는 관리자가 HR/관리자 계정을 생성합니다.
func (s *Service) ProvisionStaff(actor *UserView, req ProvisionStaffRequest) (uint64, error) {
	if !actor.IsAdmin() {
		return 0, fmt.Errorf("권한 없음: 계정 생성은 관리자만 가능합니다")
	}
	role := NormalizeRole(req.Role)
	if role != RoleAdmin && role != RoleHR {
		return 0, fmt.Errorf("유효하지 않은 역할입니다: %s", req.Role)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return 0, err
	}
	id, err := s.store.CreateUser(&User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return 0, err
	}
	if err := s.store.CreateStaffProfile(&StaffProfile{
		UserID:    id,
		StaffName: req.Name,
		BranchID:  req.BranchID,
	}); err != nil {
		return 0, err
	}
	return id, nil
}

// SetUserActive는 계정 활성 여부를 변경합니다. (관리자 전용)
func (s *Service) SetUserActive(actor *UserView, userID uint64, active bool) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("권한 없음: 계정 상태 변경은 관리자만 가능합니다")
	}
	if actor.UserID == userID {
		return fmt.Errorf("자기 자신의 계정은 비활성화할 수 없습니다")
	}
	return s.store.SetUserActive(userID, active)
}

// ListHRAccounts / ListActiveSessions (관리자 화면/대시보드용 위임)
func (s *Service) ListHRAccounts() ([]HRAccountRow, error) { return s.store.ListHRAccounts() }
func (s *Service) ListActiveSessions() ([]ActiveSessionRow, error) {
	return s.store.ListActiveSessions()
}
