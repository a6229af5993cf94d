package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"recruitdesk/internal/auth"
)

// RequireRole은 AuthMiddleware *다음에* 실행되어야 하며,
// 현재 사용자의 역할이 허용 목록에 있는지 확인합니다.
// admin은 항상 통과합니다.
func RequireRole(roles ...string) fiber.Handler {

	return func(c *fiber.Ctx) error {
		view, ok := c.Locals("current_user").(*auth.UserView)
		if !ok || view == nil {
			return c.Redirect("/auth/login")
		}

		if view.IsAdmin() {
			return c.Next()
		}
		for _, role := range roles {
			if view.Role == role {
				return c.Next()
			}
		}

		log.Printf("[WARN] 권한 없는 접근 (Role: %s, Path: %s)", view.Role, c.Path())
		return c.Redirect("/dashboard")
	}
}

// AdminOnly는 admin 역할만 허용합니다.
func AdminOnly() fiber.Handler {
	return RequireRole(auth.RoleAdmin)
}
