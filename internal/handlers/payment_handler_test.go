package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubPaymentService struct {
	redirect      *services.PaymentRedirect
	startErr      error
	verifyResult  *services.VerifyResult
	verifyErr     error
	purchases     []models.UserPurchase
	lastUserID    int64
	lastAuthority string
	lastStatus    string
}

func (s *stubPaymentService) StartSubscription(_ context.Context, userID int64, _ services.StartSubscriptionInput) (*services.PaymentRedirect, error) {
	s.lastUserID = userID
	return s.redirect, s.startErr
}

func (s *stubPaymentService) VerifyCallback(_ context.Context, authority, status string) (*services.VerifyResult, error) {
	s.lastAuthority = authority
	s.lastStatus = status
	return s.verifyResult, s.verifyErr
}

func (s *stubPaymentService) ListPurchases(_ context.Context, userID int64) ([]models.UserPurchase, error) {
	s.lastUserID = userID
	return s.purchases, nil
}

func newPaymentApp(service *stubPaymentService) *fiber.App {
	handler := NewPaymentHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "7")
		return c.Next()
	})
	app.Post("/api/v1/payments/subscription", handler.RequestPayment)
	app.Get("/api/payment/verify", handler.VerifyPayment)
	app.Get("/api/payment/deep-link", handler.DeepLink)
	app.Get("/api/v1/payments", handler.ListPurchases)
	return app
}

func TestRequestPaymentReturnsRedirect(t *testing.T) {
	service := &stubPaymentService{redirect: &services.PaymentRedirect{
		Purchase:    &models.UserPurchase{ID: 1, Amount: 3900000, PaymentStatus: models.PaymentPending},
		StartPayURL: "https://www.zarinpal.com/pg/StartPay/A0001",
	}}
	app := newPaymentApp(service)

	body, _ := json.Marshal(map[string]any{"plan": "pro", "period_months": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/subscription", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastUserID != 7 {
		t.Fatalf("expected user 7, got %d", service.lastUserID)
	}

	var payload struct {
		StartPayURL string `json:"start_pay_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.Contains(payload.StartPayURL, "StartPay") {
		t.Fatalf("unexpected StartPay URL %q", payload.StartPayURL)
	}
}

func TestRequestPaymentWithoutGateway(t *testing.T) {
	service := &stubPaymentService{startErr: services.ErrGatewayUnavailable}
	app := newPaymentApp(service)

	body, _ := json.Marshal(map[string]any{"plan": "pro", "period_months": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/subscription", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestVerifyPaymentForwardsGatewayParams(t *testing.T) {
	service := &stubPaymentService{verifyResult: &services.VerifyResult{
		Purchase: &models.UserPurchase{ID: 1, PaymentStatus: models.PaymentPaid},
		RefID:    "REF123",
	}}
	app := newPaymentApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/payment/verify?Authority=A0001&Status=OK", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastAuthority != "A0001" || service.lastStatus != "OK" {
		t.Fatalf("params not forwarded: %q %q", service.lastAuthority, service.lastStatus)
	}
}

func TestVerifyPaymentFailureReturns402(t *testing.T) {
	service := &stubPaymentService{
		verifyResult: &services.VerifyResult{
			Purchase: &models.UserPurchase{ID: 1, PaymentStatus: models.PaymentCanceled},
		},
		verifyErr: services.ErrPaymentFailed,
	}
	app := newPaymentApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/payment/verify?Authority=A0001&Status=NOK", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.StatusCode)
	}
}

func TestDeepLinkEncodesPayload(t *testing.T) {
	app := newPaymentApp(&stubPaymentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/payment/deep-link?plan=ultimate&period_months=3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		DeepLink string `json:"deep_link"`
		Amount   int64  `json:"amount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.HasPrefix(payload.DeepLink, "liftlegends://payment?data=") {
		t.Fatalf("unexpected deep link %q", payload.DeepLink)
	}
	if payload.Amount != 14900000 {
		t.Fatalf("expected amount 14900000, got %d", payload.Amount)
	}
}

func TestDeepLinkRejectsUnknownPlan(t *testing.T) {
	app := newPaymentApp(&stubPaymentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/payment/deep-link?plan=basic&period_months=1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
