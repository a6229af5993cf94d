package application

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"

	"recruitdesk/internal/activity"
	"recruitdesk/internal/auth"
	"recruitdesk/internal/job"
	"recruitdesk/internal/upload"
)

// ApplicationHandler는 지원서 관련 핸들러입니다.
type ApplicationHandler struct {
	service    *Service
	jobService *job.Service
	validator  *upload.Validator
	store      *session.Store
	activity   *activity.Store
}

// NewApplicationHandler는 새 핸들러를 생성합니다.
func NewApplicationHandler(service *Service, jobService *job.Service,
	validator *upload.Validator, store *session.Store, activityStore *activity.Store) *ApplicationHandler {
	return &ApplicationHandler{
		service:    service,
		jobService: jobService,
		validator:  validator,
		store:      store,
		activity:   activityStore,
	}
}

// --- [지원자] 플로우 ---

// HandleShowMyApplications는 'GET /applications' 요청을 처리합니다.
func (h *ApplicationHandler) HandleShowMyApplications(c *fiber.Ctx) error {
	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	flashSuccess := sess.Get("flash_success")
	flashError := sess.Get("flash_error")
	if flashSuccess != nil || flashError != nil {
		sess.Delete("flash_success")
		sess.Delete("flash_error")
		sess.Save()
	}

	return c.Render("my_applications", fiber.Map{
		"Title":        "Recruitdesk | 내 지원 현황",
		"user":         view,
		"applications": h.service.ListForApplicant(view),
		"FlashSuccess": flashSuccess,
		"FlashError":   flashError,
	}, "layout")
}

// HandleShowApplyPage는 'GET /jobs/:id/apply' 요청을 처리합니다.
func (h *ApplicationHandler) HandleShowApplyPage(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(400).SendString("유효하지 않은 공고 ID입니다.")
	}
	view := c.Locals("current_user").(*auth.UserView)

	j, err := h.jobService.GetOpenJob(uint64(jobID))
	if err != nil || j == nil {
		return c.Redirect("/jobs")
	}

	return c.Render("apply", fiber.Map{
		"Title": "Recruitdesk | 지원서 작성",
		"user":  view,
		"job":   j,
	}, "layout")
}

// HandleSubmit은 'POST /jobs/:id/apply' 요청을 처리합니다.
// 첨부 파일은 업로드 파이프라인(확장자→크기→content-type→무결성)을 통과해야 합니다.
func (h *ApplicationHandler) HandleSubmit(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(400).SendString("유효하지 않은 공고 ID입니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	j, err := h.jobService.GetOpenJob(uint64(jobID))
	if err != nil || j == nil {
		sess.Set("flash_error", "지원할 수 없는 공고입니다.")
		sess.Save()
		return c.Redirect("/jobs")
	}

	// 첨부 검증 (공고별 제약, 없으면 전역 기본값)
	var descriptor *upload.Descriptor
	fh, err := c.FormFile("resume")
	if err == nil && fh != nil {
		descriptor, err = h.validator.Process(fh, upload.Policy{
			AllowedExtensions: j.ExtensionList(),
			MaxBytes:          j.MaxUploadBytes,
		})
		if err != nil {
			var vErr *upload.ValidationError
			msg := "첨부 파일 처리에 실패했습니다."
			if errors.As(err, &vErr) {
				msg = vErr.Reason
			}
			sess.Set("flash_error", msg)
			sess.Save()
			return c.Redirect("/jobs/" + strconv.Itoa(jobID) + "/apply")
		}
	}

	_, err = h.service.Submit(view, SubmitRequest{
		JobID:       uint64(jobID),
		CoverLetter: c.FormValue("cover_letter"),
		Attachment:  descriptor,
	})
	if errors.Is(err, ErrAttachmentRequired) {
		sess.Set("flash_error", "이 공고는 첨부 서류가 필수입니다. 파일을 선택해 주세요.")
		sess.Save()
		return c.Redirect("/jobs/" + strconv.Itoa(jobID) + "/apply")
	}
	if err != nil {
		// 지원서 저장 실패 시 이미 기록된 첨부는 정리
		h.validator.Remove(descriptor)
		log.Warnf("지원서 제출 실패: %v", err)
		sess.Set("flash_error", "지원서 제출 실패: "+err.Error())
		sess.Save()
		return c.Redirect("/jobs")
	}

	sess.Set("flash_success", "지원서가 접수되었습니다.")
	sess.Save()
	return c.Redirect("/applications")
}

// HandleEdit는 'POST /applications/edit/:id' 요청을 처리합니다.
// HR이 이미 열람한 지원서는 수정할 수 없습니다.
func (h *ApplicationHandler) HandleEdit(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(400).SendString("유효하지 않은 지원서 ID입니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	err = h.service.Edit(view, uint64(appID), c.FormValue("cover_letter"))
	switch {
	case errors.Is(err, ErrLocked):
		sess.Set("flash_error", "이미 담당자가 열람한 지원서는 수정할 수 없습니다.")
	case err != nil:
		sess.Set("flash_error", "지원서 수정 실패: "+err.Error())
	default:
		sess.Set("flash_success", "지원서가 수정되었습니다.")
	}
	sess.Save()
	return c.Redirect("/applications")
}

// HandleWithdraw는 'POST /applications/withdraw/:id' 요청을 처리합니다.
func (h *ApplicationHandler) HandleWithdraw(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(400).SendString("유효하지 않은 지원서 ID입니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	if err := h.service.Withdraw(view, uint64(appID)); err != nil {
		sess.Set("flash_error", "철회 실패: "+err.Error())
	} else {
		sess.Set("flash_success", "지원서가 철회되었습니다.")
	}
	sess.Save()
	return c.Redirect("/applications")
}

// --- [HR] 플로우 ---

// HandleShowReviewPage는 'GET /review' 요청을 처리합니다.
func (h *ApplicationHandler) HandleShowReviewPage(c *fiber.Ctx) error {
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

	rows := h.service.ListForStaff(view, explicitBranch, c.Query("status"))

	return c.Render("review", fiber.Map{
		"Title":        "Recruitdesk | 지원서 검토",
		"user":         view,
		"applications": rows,
		"FlashSuccess": flashSuccess,
		"FlashError":   flashError,
	}, "layout")
}

// HandleShowDetail은 'GET /review/:id' 요청을 처리합니다.
// 최초 열람 시 viewed_at이 찍히고, 그 후 지원자의 수정이 잠깁니다.
func (h *ApplicationHandler) HandleShowDetail(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(400).SendString("유효하지 않은 지원서 ID입니다.")
	}
	view := c.Locals("current_user").(*auth.UserView)

	a, resumes, err := h.service.ViewForStaff(view, uint64(appID))
	if err != nil {
		log.Warnf("지원서 열람 실패 (ID: %d): %v", appID, err)
		return c.Redirect("/review")
	}

	return c.Render("review_detail", fiber.Map{
		"Title":       "Recruitdesk | 지원서 상세",
		"user":        view,
		"application": a,
		"resumes":     resumes,
	}, "layout")
}

// HandleTransition은 'POST /review/:id/status' 요청을 처리합니다.
func (h *ApplicationHandler) HandleTransition(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID <= 0 {
		return c.Status(400).SendString("유효하지 않은 지원서 ID입니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)
	status := c.FormValue("status")

	if err := h.service.Transition(view, uint64(appID), status); err != nil {
		sess.Set("flash_error", "상태 변경 실패: "+err.Error())
	} else {
		h.activity.Record(view.UserID, "transition_"+CanonicalStatus(status), "applications", uint64(appID))
		sess.Set("flash_success", "지원서 상태가 변경되었습니다.")
	}
	sess.Save()
	return c.Redirect("/review/" + strconv.Itoa(appID))
}
