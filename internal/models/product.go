package models

// Product: stok hiçbir zaman negatif kalmamalı, tüm azaltma yolları sıfırda keser
type Product struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"size:200;not null" json:"name"`
	Price   int     `gorm:"not null;default:0" json:"price"`
	Stock   int     `gorm:"not null;default:0" json:"stock"`
	Barcode *string `gorm:"size:64;uniqueIndex" json:"barcode"`
	Image   *string `gorm:"size:255" json:"image"`
}
