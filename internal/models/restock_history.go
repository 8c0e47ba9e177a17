package models

// RestockHistory: gelen stok hareketlerinin denetim kaydı
type RestockHistory struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	ProductID   uint    `gorm:"index;not null" json:"product_id"`
	ProductName string  `gorm:"size:200;not null" json:"product_name"`
	Barcode     string  `gorm:"size:64;not null" json:"barcode"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"` // kasa fiyatından bölünmüş birim maliyet
	Price       int     `gorm:"not null" json:"price"`      // satış fiyatı
	Quantity    int     `gorm:"not null" json:"quantity"`
	Subtotal    int     `gorm:"not null" json:"subtotal"`
	Timestamp   string  `gorm:"size:19;index;not null" json:"timestamp"`
}

func (RestockHistory) TableName() string { return "restock_history" }
