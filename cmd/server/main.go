package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"labbooth-backend/internal/admin"
	"labbooth-backend/internal/audit"
	"labbooth-backend/internal/auth"
	"labbooth-backend/internal/clock"
	"labbooth-backend/internal/config"
	"labbooth-backend/internal/database"
	"labbooth-backend/internal/dedup"
	"labbooth-backend/internal/logger"
	"labbooth-backend/internal/metrics"
	"labbooth-backend/internal/middleware"
	"labbooth-backend/internal/restock"
	"labbooth-backend/internal/scheduler"
	"labbooth-backend/internal/shop"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// .env yoksa ortam değişkenleri kullanılır
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl := logger.InitLogger(cfg)
	defer func() { _ = zl.Sync() }()

	metrics.InitMetrics(cfg.MetricsPrefix)

	db, err := database.Init(cfg)
	if err != nil {
		zl.Fatal("database init failed", zap.Error(err))
	}

	authenticator, err := auth.NewAuthenticator(cfg.AdminPassword, cfg.JWTSecret, bcrypt.DefaultCost)
	if err != nil {
		zl.Fatal("authenticator init failed", zap.Error(err))
	}

	clk := clock.System{}
	store := newDedupStore(cfg, db)

	shopSvc := shop.NewService(shop.NewGormRepository(db), store, clk, zl.Named("shop"))
	suggestionSvc := restock.NewSuggestionService(
		restock.NewAggregator(restock.NewGormSalesSource(db), clk),
		zl.Named("restock"),
	)
	importer := restock.NewImporter(db, clk, zl.Named("restock"))
	history := restock.NewHistoryService(db, clk)

	sched := scheduler.New(db, store, clk, zl.Named("scheduler"))
	if err := sched.Start(); err != nil {
		zl.Fatal("scheduler start failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + auth.HeaderAdminPass + ", " + middleware.HeaderRequestID,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Use(middleware.RequestID)
	app.Use(middleware.Metrics)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": clock.NowString(clk)})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	// Kiosk
	api.Post("/login", auth.LoginHandler(authenticator))
	api.Get("/members", shop.ListMembersHandler(shopSvc))
	api.Get("/products", shop.ListProductsHandler(shopSvc))
	api.Post("/purchase", shop.PurchaseHandler(shopSvc))

	// Admin
	adminRoutes := api.Group("/admin")
	adminRoutes.Use(auth.AdminMiddleware(authenticator))

	adminRoutes.Get("/restock-suggestions", restock.SuggestionsHandler(suggestionSvc))
	adminRoutes.Post("/restock/import", restock.ImportHandler(importer))
	adminRoutes.Get("/invoice-summary", admin.InvoiceSummaryHandler(db, clk))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	adminRoutes.Get("/members", admin.ListMembersHandler(db))
	adminRoutes.Post("/members", admin.CreateMemberHandler(db))
	adminRoutes.Put("/members/:id", admin.UpdateMemberHandler(db))
	adminRoutes.Delete("/members/:id", admin.DeleteMemberHandler(db))

	adminRoutes.Get("/products", admin.ListProductsHandler(db))
	adminRoutes.Post("/products", admin.CreateProductHandler(db))
	adminRoutes.Put("/products/:id", admin.UpdateProductHandler(db))
	adminRoutes.Delete("/products/:id", admin.DeleteProductHandler(db))

	adminRoutes.Get("/purchases", admin.ListPurchasesHandler(db))
	adminRoutes.Delete("/purchases/:id", admin.DeletePurchaseHandler(db))

	adminRoutes.Get("/restock_history", restock.ListHistoryHandler(history))
	adminRoutes.Post("/restock_history", restock.CreateHistoryHandler(history))
	adminRoutes.Put("/restock_history/:id", restock.UpdateHistoryHandler(history))
	adminRoutes.Delete("/restock_history/:id", restock.DeleteHistoryHandler(history))

	go func() {
		zl.Info("server listening", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.Env))
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
	sched.Stop(ctx)
}

// newDedupStore picks the in-process store unless several instances share
// the database.
func newDedupStore(cfg *config.Config, db *gorm.DB) dedup.Store {
	if cfg.DedupStore == "database" {
		return dedup.NewGormStore(db, cfg.DedupWindow)
	}
	return dedup.NewMemoryStore(cfg.DedupWindow)
}
