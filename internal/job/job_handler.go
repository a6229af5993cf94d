package job

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"

	"recruitdesk/internal/activity"
	"recruitdesk/internal/auth"
	"recruitdesk/internal/branch"
)

// JobHandler는 공고 관련 핸들러입니다.
type JobHandler struct {
	service     *Service
	store       *session.Store
	branchStore *branch.Store
	activity    *activity.Store
}

// NewJobHandler는 새 핸들러를 생성합니다.
func NewJobHandler(service *Service, store *session.Store,
	branchStore *branch.Store, activityStore *activity.Store) *JobHandler {
	return &JobHandler{
		service:     service,
		store:       store,
		branchStore: branchStore,
		activity:    activityStore,
	}
}

// HandleShowJobPage는 'GET /jobs' 요청을 처리합니다.
// staff에게는 관리 화면, 지원자에게는 열린 공고 목록이 렌더링됩니다.
func (h *JobHandler) HandleShowJobPage(c *fiber.Ctx) error {
	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	flashSuccess := sess.Get("flash_success")
	flashError := sess.Get("flash_error")
	if flashSuccess != nil || flashError != nil {
		sess.Delete("flash_success")
		sess.Delete("flash_error")
		sess.Save()
	}

	var explicitBranch *uint64
	if raw := c.Query("branch"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			explicitBranch = &id
		}
	}

	jobs, _ := h.service.ListVisibleJobs(view, explicitBranch)
	branches, err := h.branchStore.ListBranches()
	if err != nil {
		branches = []branch.Branch{}
	}

	return c.Render("jobs", fiber.Map{
		"Title":        "Recruitdesk | 채용 공고",
		"user":         view,
		"jobs":         jobs,
		"branches":     branches,
		"FlashSuccess": flashSuccess,
		"FlashError":   flashError,
	}, "layout")
}

// HandleCreateJob은 'POST /jobs' 요청을 처리합니다.
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	form, err := parseJobForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("공고 폼 입력이 잘못되었습니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	id, err := h.service.CreateJob(view, *form)
	if err != nil {
		log.Errorf("공고 등록 실패: %v", err)
		sess.Set("flash_error", "공고 등록 실패: "+err.Error())
	} else {
		h.activity.Record(view.UserID, "create_job", "jobs", id)
		sess.Set("flash_success", "공고가 등록되었습니다.")
	}
	sess.Save()
	return c.Redirect("/jobs")
}

// HandleUpdateJob은 'POST /jobs/edit/:id' 요청을 처리합니다.
func (h *JobHandler) HandleUpdateJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(400).SendString("유효하지 않은 공고 ID입니다.")
	}
	form, err := parseJobForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("공고 폼 입력이 잘못되었습니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	if err := h.service.UpdateJob(view, uint64(jobID), *form); err != nil {
		log.Errorf("공고 수정 실패 (ID: %d): %v", jobID, err)
		sess.Set("flash_error", "공고 수정 실패: "+err.Error())
	} else {
		h.activity.Record(view.UserID, "update_job", "jobs", uint64(jobID))
		sess.Set("flash_success", "공고가 수정되었습니다.")
	}
	sess.Save()
	return c.Redirect("/jobs")
}

// HandleCloseJob은 'POST /jobs/close/:id' 요청을 처리합니다.
func (h *JobHandler) HandleCloseJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(400).SendString("유효하지 않은 공고 ID입니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	if err := h.service.CloseJob(view, uint64(jobID)); err != nil {
		log.Errorf("공고 마감 실패 (ID: %d): %v", jobID, err)
		sess.Set("flash_error", "공고 마감 실패: "+err.Error())
	} else {
		h.activity.Record(view.UserID, "close_job", "jobs", uint64(jobID))
		sess.Set("flash_success", "공고가 마감되었습니다.")
	}
	sess.Save()
	return c.Redirect("/jobs")
}

func parseJobForm(c *fiber.Ctx) (*SaveRequest, error) {
	type jobForm struct {
		Title             string `form:"title"`
		Description       string `form:"description"`
		BranchID          uint64 `form:"branch_id"` // 0이면 전역 공고
		AllowedExtensions string `form:"allowed_extensions"`
		MaxUploadMB       int64  `form:"max_upload_mb"`
		RequiredFileTypes string `form:"required_file_types"`
	}
	form := new(jobForm)
	if err := c.BodyParser(form); err != nil {
		return nil, err
	}

	req := &SaveRequest{
		Title:             form.Title,
		Description:       form.Description,
		AllowedExtensions: form.AllowedExtensions,
		MaxUploadBytes:    form.MaxUploadMB * 1024 * 1024,
		RequiredFileTypes: form.RequiredFileTypes,
	}
	if form.BranchID > 0 {
		req.BranchID = &form.BranchID
	}
	return req, nil
}
