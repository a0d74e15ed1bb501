package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/riodino14/edupulse-backend/internal/utils"
)

// Auth roles understood by WithAuth.
const (
	AuthRoleAdmin   = "admin"
	AuthRoleStudent = "student"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	// Roles lists the accepted roles; empty accepts any authenticated user.
	Roles []string
	// StudentParam names the route param, or failing that the query key,
	// holding the student id a student caller must own. Admins are exempt.
	StudentParam string
}

// WithAuth wraps a handler with authentication, role and ownership guards.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	allowed := make(map[string]struct{}, len(opts.Roles))
	for _, role := range opts.Roles {
		allowed[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		if len(allowed) > 0 {
			if _, ok := allowed[UserRole(c)]; !ok {
				return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
			}
		}

		if opts.StudentParam != "" && !canAccessRequestedStudents(c, opts.StudentParam) {
			return utils.Fail(c, fiber.StatusForbidden, "students may only access their own data", nil)
		}

		return handler(c)
	}
}

// canAccessRequestedStudents checks the route param, or every value of a
// repeated query key, since query decoders may keep a different occurrence.
func canAccessRequestedStudents(c *fiber.Ctx, key string) bool {
	values := []string{c.Params(key)}
	if values[0] == "" {
		values = values[:0]
		for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
			values = append(values, string(raw))
		}
	}

	for _, raw := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			continue
		}
		if !CanAccessStudent(c, id) {
			return false
		}
	}
	return true
}

// CanAccessStudent reports whether the caller may read data of studentID:
// admins always, students only for their own id.
func CanAccessStudent(c *fiber.Ctx, studentID int64) bool {
	switch UserRole(c) {
	case AuthRoleAdmin:
		return true
	case AuthRoleStudent:
		return UserID(c) == strconv.FormatInt(studentID, 10)
	default:
		return false
	}
}
