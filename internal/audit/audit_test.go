package audit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"labbooth-backend/internal/database/dbtest"
	"labbooth-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestWriteLogAndList(t *testing.T) {
	db := dbtest.New(t)

	before := models.Product{ID: 3, Name: "Cola", Price: 100}
	after := models.Product{ID: 3, Name: "Cola", Price: 120}
	if err := WriteLog(db, LogOptions{
		Actor: "token", EntityType: "product", EntityID: 3,
		Action: models.AuditActionUpdate, Description: "price change",
		Before: before, After: after,
	}); err != nil {
		t.Fatal(err)
	}
	if err := WriteLog(db, LogOptions{Actor: "basic", EntityType: "member", EntityID: 1, Action: models.AuditActionCreate}); err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	app.Get("/logs", ListAuditLogsHandler(db))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/logs?entity_type=product", nil))
	if err != nil {
		t.Fatal(err)
	}
	var logs []AuditLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	var got models.Product
	if err := json.Unmarshal([]byte(logs[0].AfterData), &got); err != nil || got.Price != 120 {
		t.Fatalf("after data = %q", logs[0].AfterData)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/logs", nil))
	logs = nil
	_ = json.NewDecoder(resp.Body).Decode(&logs)
	if len(logs) != 2 || logs[0].EntityType != "member" {
		t.Fatalf("expected newest first, got %+v", logs)
	}
	if logs[0].BeforeData != "null" {
		t.Fatalf("nil before should be stored as null, got %q", logs[0].BeforeData)
	}
}

func TestListAuditLogsUsesShopTime(t *testing.T) {
	db := dbtest.New(t)
	// UTC 31 Mart 16:30 = JST 1 Nisan 01:30
	entry := models.AuditLog{
		CreatedAt:  time.Date(2025, 3, 31, 16, 30, 0, 0, time.UTC),
		Actor:      "token",
		EntityType: "product",
		EntityID:   1,
		Action:     models.AuditActionDelete,
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	app.Get("/logs", ListAuditLogsHandler(db))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/logs", nil))
	if err != nil {
		t.Fatal(err)
	}
	var logs []AuditLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].CreatedAt != "2025-04-01 01:30:00" {
		t.Fatalf("logs = %+v, want created_at in shop time", logs)
	}
}
