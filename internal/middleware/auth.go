package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"recruitdesk/internal/auth"
)

// AuthMiddleware는 세션으로부터 현재 사용자를 해석해 Locals에 저장합니다.
// 해석은 DB의 프로필을 우선하며, 스토어 장애 시에만 세션 캐시 값을 신뢰합니다.
// (가용성 우선 폴백 - 폴백 결정은 여기 한 곳에서만 내립니다)
func AuthMiddleware(store *session.Store, authService *auth.Service) fiber.Handler {

	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Printf("[ERROR] 미들웨어: 세션 가져오기 실패: %v", err)
			return c.Redirect("/auth/login")
		}

		view, err := authService.ResolveCurrentUser(sess)
		if err != nil && errors.Is(err, auth.ErrStoreUnavailable) {
			log.Printf("[WARN] 미들웨어: 스토어 장애, 세션 캐시로 계속 (%s)", c.Path())
			// view에는 캐시된 값이 들어 있음
		}
		if view == nil || view.UserID == 0 {
			log.Printf("[WARN] 미들웨어: 로그인되지 않은 접근 (%s)", c.Path())
			return c.Redirect("/auth/login")
		}

		c.Locals("current_user", view)
		return c.Next()
	}
}
