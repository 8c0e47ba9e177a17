package admin

import (
	"errors"
	"fmt"
	"strings"

	"labbooth-backend/internal/audit"
	"labbooth-backend/internal/auth"
	"labbooth-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MemberRequest struct {
	Name string `json:"name"`
}

// GET /api/admin/members
func ListMembersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var members []models.Member
		if err := db.WithContext(c.UserContext()).Order("id asc").Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list members")
		}
		return c.JSON(fiber.Map{"members": members})
	}
}

// POST /api/admin/members
func CreateMemberHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MemberRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		m := models.Member{Name: name}
		err := db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.Actor(c),
				EntityType:  "member",
				EntityID:    m.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Üye eklendi: %s", m.Name),
				After:       m,
			})
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create member")
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// PUT /api/admin/members/:id
// Geçmiş satın almalardaki isim değişmez, sadece sonraki kayıtlar yeni ismi alır
func UpdateMemberHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		var body MemberRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		var m models.Member
		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&m, id).Error; err != nil {
				return err
			}
			before := m
			m.Name = name
			if err := tx.Save(&m).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:      auth.Actor(c),
				EntityType: "member",
				EntityID:   m.ID,
				Action:     models.AuditActionUpdate,
				Before:     before,
				After:      m,
			})
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "member not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update member")
		}
		return c.JSON(m)
	}
}

// DELETE /api/admin/members/:id
func DeleteMemberHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var m models.Member
			if err := tx.First(&m, id).Error; err != nil {
				return err
			}
			if err := tx.Delete(&m).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.Actor(c),
				EntityType:  "member",
				EntityID:    m.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Üye silindi: %s", m.Name),
				Before:      m,
			})
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "member not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete member")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
