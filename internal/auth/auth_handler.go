package auth

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus" // (logrus 표준 사용)

	"recruitdesk/internal/activity"
)

// AuthHandler
type AuthHandler struct {
	service  *Service
	store    *session.Store
	activity *activity.Store
}

// NewAuthHandler
func NewAuthHandler(service *Service, store *session.Store, activityStore *activity.Store) *AuthHandler {
	return &AuthHandler{
		service:  service,
		store:    store,
		activity: activityStore,
	}
}

// --- [가입] 플로우 ---

func (h *AuthHandler) HandleShowRegisterPage(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{
		"Title": "Recruitdesk | 지원자 가입",
	}, "layout")
}

// HandleRegister는 지원자 가입을 처리합니다.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	type registerForm struct {
		Name     string `form:"name"`
		Email    string `form:"email"`
		Password string `form:"password"`
	}
	form := new(registerForm)

	if err := c.BodyParser(form); err != nil {
		log.Warnf("가입 폼 파싱 실패: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("입력 값이 올바르지 않습니다.")
	}
	if form.Email == "" || form.Name == "" || len(form.Password) < 8 {
		return c.Render("register", fiber.Map{
			"Title":      "Recruitdesk | 지원자 가입",
			"FlashError": "이름, 이메일, 8자 이상의 비밀번호를 입력하세요.",
			"Form":       form,
		}, "layout")
	}

	_, err := h.service.RegisterApplicant(RegisterApplicantRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		log.Warnf("가입 처리 실패: %v", err)
		return c.Render("register", fiber.Map{
			"Title":      "Recruitdesk | 지원자 가입",
			"FlashError": "가입 실패: 이미 사용 중인 이메일일 수 있습니다.",
			"Form":       form,
		}, "layout")
	}

	sess, _ := h.store.Get(c)
	sess.Set("flash_success", "가입이 완료되었습니다. 메일로 전송된 토큰으로 이메일 인증을 완료해 주세요.")
	sess.Save()
	return c.Redirect("/auth/login")
}

// HandleVerifyEmail은 'GET /auth/verify?token=...' 인증 링크를 처리합니다.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	sess, _ := h.store.Get(c)

	if token == "" || h.service.VerifyApplicant(token) != nil {
		sess.Set("flash_error", "인증 토큰이 유효하지 않거나 만료되었습니다.")
	} else {
		sess.Set("flash_success", "이메일 인증이 완료되었습니다.")
	}
	sess.Save()
	return c.Redirect("/auth/login")
}

// --- [로그인/로그아웃] 플로우 ---

func (h *AuthHandler) HandleShowLoginPage(c *fiber.Ctx) error {
	sess, _ := h.store.Get(c)
	flashSuccess := sess.Get("flash_success")
	flashError := sess.Get("flash_error")
	if flashSuccess != nil || flashError != nil {
		sess.Delete("flash_success")
		sess.Delete("flash_error")
		sess.Save()
	}

	return c.Render("login", fiber.Map{
		"Title":        "Recruitdesk | 로그인",
		"FlashSuccess": flashSuccess,
		"FlashError":   flashError,
	}, "layout")
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	type loginForm struct {
		Email    string `form:"email"`
		Password string `form:"password"`
	}
	form := new(loginForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("입력 값이 올바르지 않습니다.")
	}

	user, err := h.service.Authenticate(form.Email, form.Password)
	if err != nil {
		msg := "이메일 또는 비밀번호가 올바르지 않습니다."
		if err == ErrStoreUnavailable {
			msg = "로그인 처리 중 서버 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
		}
		return c.Render("login", fiber.Map{
			"Title": "Recruitdesk | 로그인",
			"Error": msg,
		}, "layout")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("세션 가져오기 실패: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("세션 오류")
	}

	h.service.Login(sess, user)

	if NormalizeRole(user.Role) == RoleApplicant {
		return c.Redirect("/applications")
	}
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		log.Errorf("로그아웃: 세션 가져오기 실패: %v", err)
		return c.Redirect("/auth/login")
	}

	// (활성 세션 없이 호출돼도 no-op)
	h.service.Logout(sess)
	log.Info("사용자 로그아웃")

	return c.Redirect("/auth/login")
}

// --- [관리자 기능] ---

// HandleShowAdminPage는 'GET /admin/users' 요청을 처리합니다.
func (h *AuthHandler) HandleShowAdminPage(c *fiber.Ctx) error {
	sess, _ := h.store.Get(c)

	flashSuccess := sess.Get("flash_success")
	if flashSuccess != nil {
		sess.Delete("flash_success")
	}
	flashError := sess.Get("flash_error")
	if flashError != nil {
		sess.Delete("flash_error")
	}
	sess.Save()

	view := c.Locals("current_user").(*UserView)

	accounts, err := h.service.ListHRAccounts()
	if err != nil {
		log.Errorf("관리자 페이지 계정 조회 실패: %v", err)
		accounts = []HRAccountRow{}
	}
	sessions, err := h.service.ListActiveSessions()
	if err != nil {
		sessions = []ActiveSessionRow{}
	}
	logs, err := h.activity.RecentLogs(20)
	if err != nil {
		logs = nil
	}

	return c.Render("admin_users", fiber.Map{
		"Title":           "Recruitdesk | 계정 관리",
		"user":            view,
		"hr_accounts":     accounts,
		"active_sessions": sessions,
		"activity_logs":   logs,
		"FlashSuccess":    flashSuccess,
		"FlashError":      flashError,
	}, "layout")
}

// HandleCreateStaff는 'POST /admin/users' 요청을 처리합니다.
func (h *AuthHandler) HandleCreateStaff(c *fiber.Ctx) error {
	type staffForm struct {
		Name     string `form:"name"`
		Email    string `form:"email"`
		Password string `form:"password"`
		Role     string `form:"role"`
		BranchID uint64 `form:"branch_id"`
	}
	form := new(staffForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("계정 생성 폼 입력이 잘못되었습니다.")
	}

	view := c.Locals("current_user").(*UserView)
	sess, _ := h.store.Get(c)

	req := ProvisionStaffRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role,
	}
	if form.BranchID > 0 {
		req.BranchID = &form.BranchID
	}

	id, err := h.service.ProvisionStaff(view, req)
	if err != nil {
		log.Errorf("staff 계정 생성 실패: %v", err)
		sess.Set("flash_error", "계정 생성 실패: "+err.Error())
	} else {
		h.activity.Record(view.UserID, "create_staff", "users", id)
		sess.Set("flash_success", "계정이 생성되었습니다. ("+form.Email+")")
	}
	sess.Save()

	return c.Redirect("/admin/users")
}

// HandleToggleUser는 'POST /admin/users/:id/toggle' 요청을 처리합니다.
func (h *AuthHandler) HandleToggleUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return c.Status(400).SendString("유효하지 않은 사용자 ID입니다.")
	}
	active := c.FormValue("active") == "1"

	view := c.Locals("current_user").(*UserView)
	sess, _ := h.store.Get(c)

	err = h.service.SetUserActive(view, uint64(userID), active)
	if err != nil {
		log.Errorf("계정 상태 변경 실패 (ID: %d): %v", userID, err)
		sess.Set("flash_error", "상태 변경 실패: "+err.Error())
	} else {
		action := "deactivate_user"
		if active {
			action = "activate_user"
		}
		h.activity.Record(view.UserID, action, "users", uint64(userID))
		sess.Set("flash_success", "사용자(ID: "+strconv.Itoa(userID)+")의 상태가 변경되었습니다.")
	}
	sess.Save()

	return c.Redirect("/admin/users")
}
