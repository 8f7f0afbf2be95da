package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"recipegram/pkg/log"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
		rl.Record("1.2.3.4")
	}

	if rl.Allow("1.2.3.4") {
		t.Error("request past the limit should be blocked")
	}
}

func TestRateLimiter_TracksIPsIndependently(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Record("1.1.1.1")

	if rl.Allow("1.1.1.1") {
		t.Error("exhausted IP should be blocked")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("fresh IP should be allowed")
	}
}

func TestRateLimiter_OldEntriesAgeOut(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	rl.Record("1.2.3.4")

	if rl.Allow("1.2.3.4") {
		t.Error("should be blocked inside the window")
	}
	time.Sleep(80 * time.Millisecond)
	if !rl.Allow("1.2.3.4") {
		t.Error("should be allowed once the window has passed")
	}
}

func TestRequestIDToContext_BridgesFiberLocalsToLogContext(t *testing.T) {
	// Arrange
	app := fiber.New()
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestIDToContextMiddleware())

	var captured string
	app.Get("/probe", func(c *fiber.Ctx) error {
		captured = log.RequestIDFromContext(c.UserContext())
		return c.SendStatus(http.StatusOK)
	})

	// Act
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Request-ID", "fixed-id-123")
	if _, err := app.Test(req, -1); err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	// Assert
	if captured != "fixed-id-123" {
		t.Errorf("request id in context = %q, want fixed-id-123", captured)
	}
}

func TestRequestIDToContext_GeneratesIDWhenAbsent(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestIDToContextMiddleware())

	var captured string
	app.Get("/probe", func(c *fiber.Ctx) error {
		captured = log.RequestIDFromContext(c.UserContext())
		return c.SendStatus(http.StatusOK)
	})

	if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil), -1); err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	if captured == "" {
		t.Error("expected a generated request id in context")
	}
}
