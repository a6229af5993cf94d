package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitdesk/internal/auth"
)

// guardedApp은 current_user Locals를 주입한 뒤 guard를 거치는 테스트 앱입니다.
func guardedApp(view *auth.UserView, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", func(c *fiber.Ctx) error {
		if view != nil {
			c.Locals("current_user", view)
		}
		return c.Next()
	}, guard, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireRole(t *testing.T) {
	type TestCase struct {
		Name             string
		View             *auth.UserView
		ExpectedStatus   int
		ExpectedLocation string
	}

	testCases := []TestCase{
		{
			Name:           "hr은 통과",
			View:           &auth.UserView{UserID: 1, Role: auth.RoleHR},
			ExpectedStatus: fiber.StatusOK,
		},
		{
			Name:           "admin은 항상 통과",
			View:           &auth.UserView{UserID: 2, Role: auth.RoleAdmin},
			ExpectedStatus: fiber.StatusOK,
		},
		{
			Name:             "지원자는 대시보드로 돌려보냄",
			View:             &auth.UserView{UserID: 3, Role: auth.RoleApplicant},
			ExpectedStatus:   fiber.StatusFound,
			ExpectedLocation: "/dashboard",
		},
		{
			Name:             "Locals 없음(미인증)은 로그인으로",
			View:             nil,
			ExpectedStatus:   fiber.StatusFound,
			ExpectedLocation: "/auth/login",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			app := guardedApp(tc.View, RequireRole(auth.RoleHR))

			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.ExpectedStatus, resp.StatusCode)
			if tc.ExpectedLocation != "" {
				assert.Equal(t, tc.ExpectedLocation, resp.Header.Get("Location"))
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	adminApp := guardedApp(&auth.UserView{UserID: 1, Role: auth.RoleAdmin}, AdminOnly())
	resp, err := adminApp.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	hrApp := guardedApp(&auth.UserView{UserID: 2, Role: auth.RoleHR}, AdminOnly())
	resp, err = hrApp.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}
