package admin

import (
	"errors"
	"fmt"

	"labbooth-backend/internal/audit"
	"labbooth-backend/internal/auth"
	"labbooth-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/admin/purchases?order=asc|desc
func ListPurchasesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		order := "id asc"
		if c.Query("order") == "desc" {
			order = "id desc"
		}

		var purchases []models.Purchase
		if err := db.WithContext(c.UserContext()).Order(order).Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list purchases")
		}
		return c.JSON(fiber.Map{"purchases": purchases})
	}
}

// DELETE /api/admin/purchases/:id
// Yanlış girilen satışı kaldırır; stok geri eklenmez, gerekirse stok girişi ile düzeltilir
func DeletePurchaseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var p models.Purchase
			if err := tx.First(&p, id).Error; err != nil {
				return err
			}
			if err := tx.Delete(&p).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.Actor(c),
				EntityType:  "purchase",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Satış silindi: %s / %s", p.MemberName, p.ProductName),
				Before:      p,
			})
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "purchase not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete purchase")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
