package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"labbooth-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestID, Metrics)
	app.Get("/x", handler)
	return app
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var out map[string]string
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out["error"]
}

func TestErrorHandlerMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"fiber error", fiber.NewError(http.StatusBadRequest, "bad shape"), 400, "bad shape"},
		{"duplicate", apperr.New(apperr.KindDuplicateRequest, "too fast"), 409, "too fast"},
		{"invalid member", apperr.New(apperr.KindInvalidMember, "invalid memberId"), 400, "invalid memberId"},
		{"transaction", apperr.Wrap(apperr.KindTransactionFailure, "purchase failed", errors.New("db gone")), 500, "purchase failed"},
		{"plain", errors.New("boom"), 500, "unexpected server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(func(c *fiber.Ctx) error { return tc.err })
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if msg := decodeError(t, resp.Body); msg != tc.wantMsg {
				t.Fatalf("message = %q, want %q", msg, tc.wantMsg)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Fatal("request id not generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, _ = app.Test(req)
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id = %q, want client value", got)
	}
}

func TestStatusOf(t *testing.T) {
	if statusOf(fiber.ErrNotFound) != 404 {
		t.Fatal("fiber code lost")
	}
	if statusOf(apperr.New(apperr.KindDuplicateRequest, "x")) != 409 {
		t.Fatal("apperr kind not mapped")
	}
}
