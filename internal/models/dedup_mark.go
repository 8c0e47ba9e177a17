package models

import "time"

// DedupMark: birden fazla süreç çalıştığında paylaşılan tekrar-gönderim kilidi
type DedupMark struct {
	Key      string    `gorm:"column:dedup_key;primaryKey;size:255"`
	MarkedAt time.Time `gorm:"index;not null"`
}
