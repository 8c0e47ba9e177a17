package restock

import (
	"labbooth-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/restock-suggestions?days&targetDays&safetyDays&minSold&limit&includeOOS
func SuggestionsHandler(svc *SuggestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := ParseParams(func(key string) string { return c.Query(key) })

		report, err := svc.Suggestions(c.UserContext(), params)
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
}

type ImportRequest struct {
	Items []Item `json:"items"`
}

// POST /api/admin/restock/import
func ImportHandler(im *Importer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ImportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		n, err := im.Import(c.UserContext(), body.Items, auth.Actor(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "imported": n})
	}
}

// GET /api/admin/restock_history?order=asc|desc
func ListHistoryHandler(svc *HistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := svc.List(c.UserContext(), c.Query("order") == "desc")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"restock_history": rows})
	}
}

// POST /api/admin/restock_history
func CreateHistoryHandler(svc *HistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body HistoryInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		row, err := svc.Create(c.UserContext(), body, auth.Actor(c))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(row)
	}
}

// PUT /api/admin/restock_history/:id
func UpdateHistoryHandler(svc *HistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		var body HistoryInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		row, err := svc.Update(c.UserContext(), uint(id), body, auth.Actor(c))
		if err != nil {
			return err
		}
		return c.JSON(row)
	}
}

// DELETE /api/admin/restock_history/:id
func DeleteHistoryHandler(svc *HistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		if err := svc.Delete(c.UserContext(), uint(id), auth.Actor(c)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
