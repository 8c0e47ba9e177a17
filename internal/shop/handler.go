package shop

import (
	"labbooth-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PurchaseRequest struct {
	MemberID   *uint  `json:"memberId"`
	ProductIDs []uint `json:"productIds"`
}

// GET /api/members
func ListMembersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		members, err := svc.ListMembers(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"members": members})
	}
}

// GET /api/products
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := svc.ListProducts(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"products": products})
	}
}

// POST /api/purchase
func PurchaseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.MemberID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "memberId is required")
		}
		if body.ProductIDs == nil {
			return fiber.NewError(fiber.StatusBadRequest, "productIds must be an array")
		}

		result, err := svc.Purchase(c.UserContext(), *body.MemberID, body.ProductIDs)
		if err != nil {
			logger.FromContext(c).Debug("purchase rejected", zap.Error(err))
			return err
		}
		return c.JSON(result)
	}
}
