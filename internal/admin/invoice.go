package admin

import (
	"context"
	"strconv"

	"labbooth-backend/internal/apperr"
	"labbooth-backend/internal/clock"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InvoiceRow struct {
	MemberID   uint   `json:"member_id" gorm:"column:member_id"`
	MemberName string `json:"member_name" gorm:"column:member_name"`
	Settlement int    `json:"settlement" gorm:"column:settlement"`
}

// InvoiceSummary totals each member's purchases in the given month at the
// products' current prices. Members without purchases appear with zero.
func InvoiceSummary(ctx context.Context, db *gorm.DB, year, month int) ([]InvoiceRow, error) {
	prefix := clock.MonthPrefix(year, month) + "%"

	rows := make([]InvoiceRow, 0)
	err := db.WithContext(ctx).
		Table("members AS m").
		Select("m.id AS member_id, m.name AS member_name, COALESCE(SUM(pr.price), 0) AS settlement").
		Joins("LEFT JOIN purchases p ON p.member_id = m.id AND p.timestamp LIKE ?", prefix).
		Joins("LEFT JOIN products pr ON pr.id = p.product_id").
		Group("m.id, m.name").
		Order("m.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAggregationFailure, "failed to build invoice summary", err)
	}
	return rows, nil
}

// GET /api/admin/invoice-summary?year=2025&month=3
// Yıl/ay verilmezse dükkân saatine göre içinde bulunulan ay
func InvoiceSummaryHandler(db *gorm.DB, c clock.Clock) fiber.Handler {
	if c == nil {
		c = clock.System{}
	}
	return func(ctx *fiber.Ctx) error {
		now := c.Now().In(clock.ShopZone)
		year, month := now.Year(), int(now.Month())

		if v := ctx.Query("year"); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil || y < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid year")
			}
			year = y
		}
		if v := ctx.Query("month"); v != "" {
			m, err := strconv.Atoi(v) // "08" gibi sıfırlı aylar da kabul edilir
			if err != nil || m < 1 || m > 12 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid month")
			}
			month = m
		}

		rows, err := InvoiceSummary(ctx.UserContext(), db, year, month)
		if err != nil {
			return err
		}
		return ctx.JSON(fiber.Map{"year": year, "month": month, "rows": rows})
	}
}
