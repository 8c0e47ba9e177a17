package restock

import (
	"labbooth-backend/internal/models"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// adjustStock adds delta to a product's stock, floored at zero, and sets a new
// selling price when one is given.
func adjustStock(tx *gorm.DB, productID uint, delta int, price *int) error {
	if productID == 0 {
		return nil
	}
	if delta != 0 {
		err := tx.Model(&models.Product{}).
			Where("id = ?", productID).
			Update("stock", gorm.Expr("CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END", delta, delta)).Error
		if err != nil {
			return pkgerrors.Wrapf(err, "adjust stock of product %d", productID)
		}
	}
	if price != nil {
		err := tx.Model(&models.Product{}).
			Where("id = ? AND price <> ?", productID, *price).
			Update("price", *price).Error
		if err != nil {
			return pkgerrors.Wrapf(err, "update price of product %d", productID)
		}
	}
	return nil
}
