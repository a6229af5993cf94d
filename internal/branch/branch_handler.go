package branch

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"

	"recruitdesk/internal/activity"
	"recruitdesk/internal/auth"
)

// BranchHandler는 지점 관리(관리자 전용) 핸들러입니다.
type BranchHandler struct {
	store        *Store
	sessionStore *session.Store
	activity     *activity.Store
}

// NewBranchHandler는 새 핸들러를 생성합니다.
func NewBranchHandler(store *Store, sessionStore *session.Store, activityStore *activity.Store) *BranchHandler {
	return &BranchHandler{
		store:        store,
		sessionStore: sessionStore,
		activity:     activityStore,
	}
}

// HandleShowBranchPage는 'GET /admin/branches' 요청을 처리합니다.
func (h *BranchHandler) HandleShowBranchPage(c *fiber.Ctx) error {
	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.sessionStore.Get(c)

	flashSuccess := sess.Get("flash_success")
	flashError := sess.Get("flash_error")
	if flashSuccess != nil || flashError != nil {
		sess.Delete("flash_success")
		sess.Delete("flash_error")
		sess.Save()
	}

	branches, err := h.store.ListBranches()
	if err != nil {
		log.Errorf("지점 목록 조회 실패: %v", err)
		branches = []Branch{}
	}

	return c.Render("admin_branches", fiber.Map{
		"Title":        "Recruitdesk | 지점 관리",
		"user":         view,
		"branches":     branches,
		"FlashSuccess": flashSuccess,
		"FlashError":   flashError,
	}, "layout")
}

// HandleCreateBranch는 'POST /admin/branches' 요청을 처리합니다.
func (h *BranchHandler) HandleCreateBranch(c *fiber.Ctx) error {
	type branchForm struct {
		Name    string `form:"name"`
		Address string `form:"address"`
	}
	form := new(branchForm)
	if err := c.BodyParser(form); err != nil || form.Name == "" {
		return c.Status(fiber.StatusBadRequest).SendString("지점 폼 입력이 잘못되었습니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.sessionStore.Get(c)

	if id, err := h.store.CreateBranch(&Branch{BranchName: form.Name, Address: form.Address}); err != nil {
		log.Errorf("지점 생성 실패: %v", err)
		sess.Set("flash_error", "지점 생성에 실패했습니다.")
	} else {
		h.activity.Record(view.UserID, "create_branch", "branches", id)
		sess.Set("flash_success", "지점이 생성되었습니다. ("+form.Name+")")
	}
	sess.Save()
	return c.Redirect("/admin/branches")
}

// HandleUpdateBranch는 'POST /admin/branches/edit/:id' 요청을 처리합니다.
func (h *BranchHandler) HandleUpdateBranch(c *fiber.Ctx) error {
	branchID, err := c.ParamsInt("id")
	if err != nil || branchID <= 0 {
		return c.Status(400).SendString("유효하지 않은 지점 ID입니다.")
	}
	type branchForm struct {
		Name    string `form:"name"`
		Address string `form:"address"`
	}
	form := new(branchForm)
	if err := c.BodyParser(form); err != nil || form.Name == "" {
		return c.Status(fiber.StatusBadRequest).SendString("지점 폼 입력이 잘못되었습니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.sessionStore.Get(c)

	if err := h.store.UpdateBranch(&Branch{
		ID:         uint64(branchID),
		BranchName: form.Name,
		Address:    form.Address,
	}); err != nil {
		log.Errorf("지점 수정 실패 (ID: %d): %v", branchID, err)
		sess.Set("flash_error", "지점 수정에 실패했습니다.")
	} else {
		h.activity.Record(view.UserID, "update_branch", "branches", uint64(branchID))
		sess.Set("flash_success", "지점 정보가 수정되었습니다.")
	}
	sess.Save()
	return c.Redirect("/admin/branches")
}
