package database

import (
	"fmt"
	"time"

	"labbooth-backend/internal/config"
	"labbooth-backend/internal/logger"
	"labbooth-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if cfg.DatabaseDriver == "sqlite" {
		// SQLite tek yazıcıya izin verir; satın alma transaction'ları sıraya girsin
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.GetLogger().Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.",
		zap.String("driver", cfg.DatabaseDriver))
	return db, nil
}

func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("desteklenmeyen veritabanı sürücüsü: %s", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(zap.NewStdLog(logger.GetLogger().Named("gorm"))),
	})
}

// newGormLogger reports slow queries and real errors only; a missing row is a
// normal lookup result here.
func newGormLogger(w gormlogger.Writer) gormlogger.Interface {
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Member{},
		&models.Product{},
		&models.Purchase{},
		&models.RestockHistory{},
		&models.AuditLog{},
		&models.DedupMark{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}
