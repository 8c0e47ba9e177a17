package auth

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const CtxActorKey = "admin_actor"

// Accepted admin credentials, recorded as the audit actor.
const (
	ActorToken  = "token"
	ActorBasic  = "basic"
	ActorHeader = "header"
)

const HeaderAdminPass = "x-admin-pass"

// AdminMiddleware lets a request through with a valid admin JWT, HTTP Basic
// credentials carrying the admin password, or the x-admin-pass header.
func AdminMiddleware(a *Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if actor, ok := a.authenticate(c); ok {
			c.Locals(CtxActorKey, actor)
			return c.Next()
		}

		c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="Lab Booth Admin"`)
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
}

func (a *Authenticator) authenticate(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if scheme, value, found := strings.Cut(authHeader, " "); found {
		switch strings.ToLower(scheme) {
		case "bearer":
			if _, err := ParseToken(a.jwtSecret, strings.TrimSpace(value)); err == nil {
				return ActorToken, true
			}
		case "basic":
			// çözümleme hatası yok sayılır, sıradaki yönteme geçilir
			if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value)); err == nil {
				if _, pwd, ok := strings.Cut(string(decoded), ":"); ok && a.CheckPassword(pwd) {
					return ActorBasic, true
				}
			}
		}
	}

	if pass := c.Get(HeaderAdminPass); pass != "" && a.CheckPassword(pass) {
		return ActorHeader, true
	}
	return "", false
}

// Actor returns how the current admin request authenticated.
func Actor(c *fiber.Ctx) string {
	if actor, ok := c.Locals(CtxActorKey).(string); ok {
		return actor
	}
	return "unknown"
}
