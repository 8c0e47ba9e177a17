package auth

import (
	"time"

	"labbooth-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks the shared admin password (kept only as a bcrypt hash)
// and signs admin tokens.
type Authenticator struct {
	passwordHash []byte
	jwtSecret    string
	now          func() time.Time
}

func NewAuthenticator(password, jwtSecret string, cost int) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &Authenticator{passwordHash: hash, jwtSecret: jwtSecret, now: time.Now}, nil
}

func (a *Authenticator) CheckPassword(password string) bool {
	if password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
}

type LoginRequest struct {
	Password string `json:"password"`
}

// POST /api/login
func LoginHandler(a *Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "password is required")
		}

		if !a.CheckPassword(body.Password) {
			logger.FromContext(c).Warn("admin login failed", zap.String("ip", c.IP()))
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid password")
		}

		token, err := GenerateToken(a.jwtSecret, a.now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to issue token")
		}
		return c.JSON(fiber.Map{"token": token})
	}
}
