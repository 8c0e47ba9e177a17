package models

// Purchase: üye ve ürün adları satın alma anındaki hâliyle saklanır (sonradan değişse bile)
type Purchase struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	MemberID    uint   `gorm:"index;not null" json:"member_id"`
	MemberName  string `gorm:"size:100" json:"member_name"`
	ProductID   uint   `gorm:"index;not null" json:"product_id"`
	ProductName string `gorm:"size:200" json:"product_name"`
	Timestamp   string `gorm:"size:19;index;not null" json:"timestamp"` // "2025-03-10 18:04:05" (JST)
}
