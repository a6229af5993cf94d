package interview

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"

	"recruitdesk/internal/activity"
	"recruitdesk/internal/auth"
)

// InterviewHandler는 면접 일정 관련 핸들러입니다.
type InterviewHandler struct {
	service  *Service
	store    *session.Store
	activity *activity.Store
}

// NewInterviewHandler는 새 핸들러를 생성합니다.
func NewInterviewHandler(service *Service, store *session.Store, activityStore *activity.Store) *InterviewHandler {
	return &InterviewHandler{
		service:  service,
		store:    store,
		activity: activityStore,
	}
}

// HandleSchedule은 'POST /interviews' 요청을 처리합니다.
func (h *InterviewHandler) HandleSchedule(c *fiber.Ctx) error {
	type scheduleForm struct {
		ApplicationID uint64 `form:"application_id"`
		ScheduledAt   string `form:"scheduled_at"` // 2006-01-02T15:04 (datetime-local)
		Location      string `form:"location"`
		Mode          string `form:"mode"`
	}
	form := new(scheduleForm)
	if err := c.BodyParser(form); err != nil || form.ApplicationID == 0 {
		return c.Status(fiber.StatusBadRequest).SendString("면접 폼 입력이 잘못되었습니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)

	when, err := time.ParseInLocation("2006-01-02T15:04", form.ScheduledAt, time.Local)
	if err != nil {
		sess.Set("flash_error", "면접 일시 형식이 올바르지 않습니다.")
		sess.Save()
		return c.Redirect("/review/" + strconv.FormatUint(form.ApplicationID, 10))
	}

	id, err := h.service.Schedule(view, ScheduleRequest{
		ApplicationID: form.ApplicationID,
		ScheduledAt:   when,
		Location:      form.Location,
		Mode:          form.Mode,
	})
	if err != nil {
		log.Errorf("면접 일정 등록 실패: %v", err)
		sess.Set("flash_error", "면접 일정 등록 실패: "+err.Error())
	} else {
		h.activity.Record(view.UserID, "schedule_interview", "interviews", id)
		sess.Set("flash_success", "면접 일정이 등록되었습니다.")
	}
	sess.Save()
	return c.Redirect("/review/" + strconv.FormatUint(form.ApplicationID, 10))
}

// HandleUpdateStatus는 'POST /interviews/:id/status' 요청을 처리합니다.
func (h *InterviewHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	interviewID, err := c.ParamsInt("id")
	if err != nil || interviewID <= 0 {
		return c.Status(400).SendString("유효하지 않은 면접 ID입니다.")
	}

	view := c.Locals("current_user").(*auth.UserView)
	sess, _ := h.store.Get(c)
	status := c.FormValue("status")

	if err := h.service.UpdateStatus(view, uint64(interviewID), status); err != nil {
		sess.Set("flash_error", "면접 상태 변경 실패: "+err.Error())
	} else {
		h.activity.Record(view.UserID, "interview_"+status, "interviews", uint64(interviewID))
		sess.Set("flash_success", "면접 상태가 변경되었습니다.")
	}
	sess.Save()
	return c.Redirect("/review")
}
