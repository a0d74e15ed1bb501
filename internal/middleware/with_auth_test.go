package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/riodino14/edupulse-backend/internal/middleware"
)

func newAuthApp(userID, role string, opts middleware.AuthOptions) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals(middleware.LocalUserID, userID)
			c.Locals(middleware.LocalUserRole, role)
		}
		return c.Next()
	})
	app.Get("/student/:id", middleware.WithAuth(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	}, opts))
	app.Get("/quiz", middleware.WithAuth(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	}, opts))
	return app
}

func TestWithAuthStudentOwnsData(t *testing.T) {
	app := newAuthApp("10", "Student", middleware.AuthOptions{StudentParam: "id"})

	resp := perform(t, app, "/student/10")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = perform(t, app, "/student/11")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWithAuthOwnershipFromQuery(t *testing.T) {
	app := newAuthApp("10", "student", middleware.AuthOptions{StudentParam: "user_id"})

	resp := perform(t, app, "/quiz?user_id=10&class_id=IF-101")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = perform(t, app, "/quiz?user_id=7")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWithAuthRejectsRepeatedStudentQuery(t *testing.T) {
	app := newAuthApp("10", "student", middleware.AuthOptions{StudentParam: "user_id"})

	resp := perform(t, app, "/quiz?user_id=10&user_id=7")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = perform(t, app, "/quiz?user_id=7&user_id=10")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = perform(t, app, "/quiz?user_id=10&user_id=10")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestWithAuthAdminReadsAnyStudent(t *testing.T) {
	app := newAuthApp("admin", "admin", middleware.AuthOptions{StudentParam: "id"})

	resp := perform(t, app, "/student/11")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestWithAuthRoleFilter(t *testing.T) {
	app := newAuthApp("10", "student", middleware.AuthOptions{Roles: []string{middleware.AuthRoleAdmin}})

	resp := perform(t, app, "/student/10")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWithAuthRequiresUser(t *testing.T) {
	app := newAuthApp("", "", middleware.AuthOptions{})

	resp := perform(t, app, "/student/10")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func perform(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
