package routes

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/baintwallet/baintwallet/internal/config"
	"github.com/baintwallet/baintwallet/internal/logging"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		AppName:       "Baintwallet",
		AppEnv:        "dev",
		MasterSecret:  "test-master-secret",
		ChainID:       1,
		ChainName:     "Ethereum",
		ChainSymbol:   "ETH",
		ExplorerURL:   "https://etherscan.io",
		PendingTTL:    10 * time.Minute,
		SMSRatePerMin: 100,
	}

	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func sendWebhook(t *testing.T, app *fiber.App, from, body string) (int, string) {
	t.Helper()
	form := url.Values{"From": {from}, "Body": {body}}
	req := httptest.NewRequest(fiber.MethodPost, "/sms/webhook", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(payload)
}

func TestWebhookRepliesWithTwiML(t *testing.T) {
	app := setupTestApp(t)

	status, body := sendWebhook(t, app, "+15550001111", "HELP")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "<Response>") || !strings.Contains(body, "<Message>") {
		t.Fatalf("expected TwiML envelope, got %q", body)
	}
	if !strings.Contains(body, "Baintwallet Commands") {
		t.Fatalf("expected help text in reply, got %q", body)
	}
}

func TestWebhookOnboardsNewSender(t *testing.T) {
	app := setupTestApp(t)

	_, body := sendWebhook(t, app, "+15550001111", "BALANCE")
	if !strings.Contains(body, "Reply START to create your wallet") {
		t.Fatalf("expected onboarding prompt, got %q", body)
	}

	_, body = sendWebhook(t, app, "+15550001111", "START")
	if !strings.Contains(body, "Wallet created") {
		t.Fatalf("expected wallet creation reply, got %q", body)
	}
}

func TestWebhookRequiresFromField(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/sms/webhook", strings.NewReader(""))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWalletQueryEndpoint(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/wallet/%2B15550001111", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 before provisioning, got %d", resp.StatusCode)
	}

	sendWebhook(t, app, "+15550001111", "START")

	req = httptest.NewRequest(fiber.MethodGet, "/api/wallet/%2B15550001111", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 after provisioning, got %d: %s", resp.StatusCode, payload)
	}
	if !strings.Contains(string(payload), `"address":"0x`) {
		t.Fatalf("expected address in response, got %s", payload)
	}
}
