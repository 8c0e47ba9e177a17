package admin

import (
	"errors"
	"fmt"
	"strings"

	"labbooth-backend/internal/audit"
	"labbooth-backend/internal/auth"
	"labbooth-backend/internal/metrics"
	"labbooth-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Name    string  `json:"name"`
	Price   int     `json:"price"`
	Stock   int     `json:"stock"`
	Barcode *string `json:"barcode"` // Opsiyonel
	Image   *string `json:"image"`
}

type UpdateProductRequest struct {
	Name    *string `json:"name"`
	Price   *int    `json:"price"`
	Stock   *int    `json:"stock"`
	Barcode *string `json:"barcode"` // boş string barkodu kaldırır
	Image   *string `json:"image"`
}

var errBarcodeTaken = fiber.NewError(fiber.StatusBadRequest, "barcode already in use")

// normalizeBarcode trims the value and turns an empty barcode into NULL so the
// unique index ignores it.
func normalizeBarcode(b *string) *string {
	if b == nil {
		return nil
	}
	v := strings.TrimSpace(*b)
	if v == "" {
		return nil
	}
	return &v
}

func barcodeTaken(tx *gorm.DB, barcode *string, exceptID uint) (bool, error) {
	if barcode == nil {
		return false, nil
	}
	var n int64
	err := tx.Model(&models.Product{}).
		Where("barcode = ? AND id <> ?", *barcode, exceptID).
		Count(&n).Error
	return n > 0, err
}

// GET /api/admin/products
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := db.WithContext(c.UserContext()).Order("id asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list products")
		}
		return c.JSON(fiber.Map{"products": products})
	}
}

// POST /api/admin/products
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.Price < 0 || body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price and stock cannot be negative")
		}

		p := models.Product{
			Name:    body.Name,
			Price:   body.Price,
			Stock:   body.Stock,
			Barcode: normalizeBarcode(body.Barcode),
			Image:   body.Image,
		}
		err := db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			taken, err := barcodeTaken(tx, p.Barcode, 0)
			if err != nil {
				return err
			}
			if taken {
				return errBarcodeTaken
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.Actor(c),
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ürün eklendi: %s", p.Name),
				After:       p,
			})
		})
		if errors.Is(err, errBarcodeTaken) {
			return errBarcodeTaken
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create product")
		}

		metrics.UpdateProductStock(fmt.Sprint(p.ID), p.Name, p.Stock)
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			body.Name = &name
		}
		if (body.Price != nil && *body.Price < 0) || (body.Stock != nil && *body.Stock < 0) {
			return fiber.NewError(fiber.StatusBadRequest, "price and stock cannot be negative")
		}

		var p models.Product
		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&p, id).Error; err != nil {
				return err
			}
			before := p

			if body.Name != nil {
				p.Name = *body.Name
			}
			if body.Price != nil {
				p.Price = *body.Price
			}
			if body.Stock != nil {
				p.Stock = *body.Stock
			}
			if body.Image != nil {
				p.Image = body.Image
			}
			if body.Barcode != nil {
				p.Barcode = normalizeBarcode(body.Barcode)
				taken, err := barcodeTaken(tx, p.Barcode, p.ID)
				if err != nil {
					return err
				}
				if taken {
					return errBarcodeTaken
				}
			}

			if err := tx.Save(&p).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:      auth.Actor(c),
				EntityType: "product",
				EntityID:   p.ID,
				Action:     models.AuditActionUpdate,
				Before:     before,
				After:      p,
			})
		})
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		case errors.Is(err, errBarcodeTaken):
			return errBarcodeTaken
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update product")
		}

		metrics.UpdateProductStock(fmt.Sprint(p.ID), p.Name, p.Stock)
		return c.JSON(p)
	}
}

// DELETE /api/admin/products/:id
// Satın alma kayıtları ürün adını kendi üzerinde tuttuğu için silinmez
func DeleteProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var p models.Product
			if err := tx.First(&p, id).Error; err != nil {
				return err
			}
			if err := tx.Delete(&p).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.Actor(c),
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ürün silindi: %s", p.Name),
				Before:      p,
			})
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete product")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
