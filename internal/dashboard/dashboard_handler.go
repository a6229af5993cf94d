package dashboard

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"recruitdesk/internal/auth"
)

// DashboardHandler는 대시보드 관련 핸들러입니다.
type DashboardHandler struct {
	service *Service
}

// NewDashboardHandler는 새 핸들러를 생성합니다.
func NewDashboardHandler(service *Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// HandleShowDashboard는 'GET /dashboard' 요청을 처리합니다.
// ?branch=N 쿼리로 명시적 지점 스코프를 지정할 수 있습니다.
func (h *DashboardHandler) HandleShowDashboard(c *fiber.Ctx) error {
	view := c.Locals("current_user").(*auth.UserView)

	var explicitBranch *uint64
	if raw := c.Query("branch"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			explicitBranch = &id
		}
	}

	data := h.service.GetDashboardData(view, explicitBranch)
	log.Debugf("대시보드 조회: user=%s role=%s", view.Email, view.Role)

	return c.Render("dashboard", fiber.Map{
		"Title":               "Recruitdesk | 대시보드",
		"user":                data.User,
		"stats":               data.Stats,
		"chart_data":          data.ChartData,
		"recent_activity":     data.RecentActivity,
		"upcoming_interviews": data.UpcomingInterviews,
		"active_sessions":     data.ActiveSessions,
		"branches":            data.Branches,
		"hr_accounts":         data.HRAccounts,
	}, "layout")
}
